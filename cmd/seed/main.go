// seed carga el catálogo del café (categorías, ingredientes y productos con receta) en PostgreSQL
// a partir de planillas CSV separadas por ';'.
//
// Uso: go run ./cmd/seed [ingredientes.csv] [productos.csv]
// Sin argumentos carga el catálogo de ejemplo embebido. Las filas ya existentes se omiten.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/cafe-backoffice/internal/application/catalog"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/cafe-backoffice/pkg/config"
	"github.com/jhoicas/cafe-backoffice/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		return fmt.Errorf("seed requiere DB_DRIVER=postgres (actual: %s)", cfg.DB.Driver)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("postgres")); err != nil {
			return err
		}
	}

	ingredients, err := open(args, 0, catalog.SampleIngredients)
	if err != nil {
		return err
	}
	defer ingredients.Close()
	products, err := open(args, 1, catalog.SampleProducts)
	if err != nil {
		return err
	}
	defer products.Close()

	im := catalog.NewImporter(
		postgres.NewCategoryRepository(pool),
		postgres.NewIngredientRepository(pool),
		postgres.NewProductRepository(pool),
		log.Zerolog(),
	)
	ing, err := im.ImportIngredients(ctx, ingredients)
	if err != nil {
		return fmt.Errorf("ingredientes: %w", err)
	}
	prod, err := im.ImportProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("productos: %w", err)
	}

	fmt.Printf("Cargados %d categorías, %d ingredientes y %d productos (%d omitidos)\n",
		ing.Categories, ing.Ingredients, prod.Products, ing.Skipped+prod.Skipped)
	return nil
}

// open abre args[i] si existe; si no, usa la planilla embebida.
func open(args []string, i int, sample func() io.Reader) (io.ReadCloser, error) {
	if len(args) > i && args[i] != "" {
		f, err := os.Open(args[i])
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", args[i], err)
		}
		return f, nil
	}
	return io.NopCloser(sample()), nil
}
