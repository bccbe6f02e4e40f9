package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cafe-backoffice/internal/application/auth"
	"github.com/jhoicas/cafe-backoffice/internal/application/catalog"
	"github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/application/usecase"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cafe-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cafe-backoffice/internal/interfaces/http"
	"github.com/jhoicas/cafe-backoffice/pkg/config"
	"github.com/jhoicas/cafe-backoffice/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repos agrupa los adaptadores de persistencia del driver elegido.
type repos struct {
	users       repository.UserRepository
	categories  repository.CategoryRepository
	ingredients repository.IngredientRepository
	products    repository.ProductRepository
	movements   repository.MovementRepository
	tx          inventory.TxRunner
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria desconocida, se usa UTC")
		loc = time.UTC
	}

	ctx := context.Background()
	r, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer r.close()

	authUC := auth.NewAuthUseCase(r.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FirstName, cfg.Admin.LastName); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	movementUC := inventory.NewMovementUseCase(r.tx, r.movements, loc, log.Zerolog())
	reportUC := inventory.NewReportUseCase(r.movements, infrapdf.NewMarotoReportGenerator(cfg.App.Name), loc, log.Zerolog())
	categoryUC := usecase.NewCategoryUseCase(r.categories)
	ingredientUC := usecase.NewIngredientUseCase(r.ingredients, r.categories)
	productUC := usecase.NewProductUseCase(r.products, r.ingredients)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Café Backoffice API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		MovementUC:   movementUC,
		ReportUC:     reportUC,
		CategoryUC:   categoryUC,
		IngredientUC: ingredientUC,
		ProductUC:    productUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta a PostgreSQL o arma el almacenamiento en memoria con el catálogo de ejemplo.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.DB.Driver == config.DriverMemory {
		st := memory.NewStore()
		im := catalog.NewImporter(st.Categories(), st.Ingredients(), st.Products(), log.Zerolog())
		if _, err := im.ImportIngredients(ctx, catalog.SampleIngredients()); err != nil {
			return nil, err
		}
		if _, err := im.ImportProducts(ctx, catalog.SampleProducts()); err != nil {
			return nil, err
		}
		if strings.EqualFold(cfg.App.Env, "production") {
			log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		}
		return &repos{
			users:       st.Users(),
			categories:  st.Categories(),
			ingredients: st.Ingredients(),
			products:    st.Products(),
			movements:   st.Movements(),
			tx:          st,
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool, log.Component("postgres")); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &repos{
		users:       postgres.NewUserRepository(pool),
		categories:  postgres.NewCategoryRepository(pool),
		ingredients: postgres.NewIngredientRepository(pool),
		products:    postgres.NewProductRepository(pool),
		movements:   postgres.NewMovementRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		close:       pool.Close,
	}, nil
}
