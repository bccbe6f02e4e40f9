// Package catalog importa ingredientes y productos (con receta) desde planillas CSV
// exportadas por la administración del café.
//
// Formato de ingredientes (separador ';', con encabezado):
//
//	nombre;categoria;cantidad;minimo;unidad
//
// Formato de productos, una fila por ingrediente de la receta:
//
//	producto;precio;ingrediente;cantidad
//
// Los archivos pueden venir en UTF-8 (con o sin BOM) o en ISO-8859-1, como los guarda Excel.
package catalog

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/application/usecase"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

//go:embed sample/*.csv
var sampleFS embed.FS

// SampleIngredients planilla de ingredientes de ejemplo para entornos de desarrollo.
func SampleIngredients() io.Reader { return mustOpen("sample/ingredientes.csv") }

// SampleProducts planilla de productos de ejemplo (depende de SampleIngredients).
func SampleProducts() io.Reader { return mustOpen("sample/productos.csv") }

func mustOpen(name string) io.Reader {
	b, err := sampleFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(b)
}

// Result resumen de una importación.
type Result struct {
	Categories  int
	Ingredients int
	Products    int
	Skipped     int
}

// Importer carga planillas pasando por los casos de uso, así que aplica las mismas validaciones que la API.
// Las filas cuyo nombre ya existe se omiten, de modo que reimportar es seguro.
type Importer struct {
	categories   repository.CategoryRepository
	ingredients  repository.IngredientRepository
	products     repository.ProductRepository
	categoryUC   *usecase.CategoryUseCase
	ingredientUC *usecase.IngredientUseCase
	productUC    *usecase.ProductUseCase
	log          zerolog.Logger
}

// NewImporter construye el importador sobre los repositorios del almacenamiento elegido.
func NewImporter(
	categories repository.CategoryRepository,
	ingredients repository.IngredientRepository,
	products repository.ProductRepository,
	log zerolog.Logger,
) *Importer {
	return &Importer{
		categories:   categories,
		ingredients:  ingredients,
		products:     products,
		categoryUC:   usecase.NewCategoryUseCase(categories),
		ingredientUC: usecase.NewIngredientUseCase(ingredients, categories),
		productUC:    usecase.NewProductUseCase(products, ingredients),
		log:          log.With().Str("component", "catalog").Logger(),
	}
}

// ImportIngredients crea las categorías que falten y los ingredientes nuevos.
func (im *Importer) ImportIngredients(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	rows, err := readRows(r, 5)
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		name := row.cols[0]
		existing, err := im.ingredients.GetByName(ctx, name)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped++
			continue
		}
		req := dto.IngredientRequest{Name: name, Quantity: row.cols[2], MinQuantity: row.cols[3], Unit: row.cols[4]}
		if catName := row.cols[1]; catName != "" {
			id, created, err := im.ensureCategory(ctx, catName)
			if err != nil {
				return res, fmt.Errorf("línea %d: %w", row.line, err)
			}
			if created {
				res.Categories++
			}
			req.CategoryID = &id
		}
		if _, err := im.ingredientUC.Create(ctx, req); err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", row.line, name, err)
		}
		res.Ingredients++
	}
	im.log.Info().Int("ingredients", res.Ingredients).Int("categories", res.Categories).Int("skipped", res.Skipped).Msg("ingredientes importados")
	return res, nil
}

// ImportProducts agrupa las filas por producto y crea cada uno con su receta completa.
// Los ingredientes se buscan por nombre y deben existir.
func (im *Importer) ImportProducts(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	rows, err := readRows(r, 4)
	if err != nil {
		return res, err
	}

	var order []string
	reqs := make(map[string]*dto.ProductRequest)
	firstLine := make(map[string]int)
	for _, row := range rows {
		key := strings.ToLower(row.cols[0])
		req, ok := reqs[key]
		if !ok {
			req = &dto.ProductRequest{Name: row.cols[0], Price: row.cols[1]}
			reqs[key] = req
			firstLine[key] = row.line
			order = append(order, key)
		}
		if row.cols[2] == "" {
			continue
		}
		ing, err := im.ingredients.GetByName(ctx, row.cols[2])
		if err != nil {
			return res, err
		}
		if ing == nil {
			return res, fmt.Errorf("línea %d: %w", row.line,
				domain.NewValidation(domain.ErrNotFound, row.cols[2], fmt.Sprintf("El ingrediente %s no existe", row.cols[2])))
		}
		req.Recipe = append(req.Recipe, dto.RecipeItemRequest{IngredientID: ing.ID, Quantity: row.cols[3]})
	}

	for _, key := range order {
		req := reqs[key]
		existing, err := im.products.GetByName(ctx, req.Name)
		if err != nil {
			return res, err
		}
		if existing != nil {
			res.Skipped++
			continue
		}
		if _, err := im.productUC.Create(ctx, *req); err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", firstLine[key], req.Name, err)
		}
		res.Products++
	}
	im.log.Info().Int("products", res.Products).Int("skipped", res.Skipped).Msg("productos importados")
	return res, nil
}

func (im *Importer) ensureCategory(ctx context.Context, name string) (id string, created bool, err error) {
	c, err := im.categories.GetByName(ctx, name)
	if err != nil {
		return "", false, err
	}
	if c != nil {
		return c.ID, false, nil
	}
	resp, err := im.categoryUC.Create(ctx, dto.CategoryRequest{Name: name})
	if err != nil {
		return "", false, err
	}
	return resp.ID, true, nil
}

type csvRow struct {
	line int
	cols []string
}

// readRows decodifica el archivo completo, descarta el encabezado y las filas vacías
// y recorta cada columna. Exige al menos want columnas por fila.
func readRows(r io.Reader, want int) ([]csvRow, error) {
	text, err := decode(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []csvRow
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < want {
			return nil, fmt.Errorf("línea %d: se esperaban %d columnas y hay %d", line, want, len(rec))
		}
		cols := make([]string, want)
		for i := range cols {
			cols[i] = strings.TrimSpace(rec[i])
		}
		if cols[0] == "" {
			return nil, fmt.Errorf("línea %d: el nombre es obligatorio", line)
		}
		rows = append(rows, csvRow{line: line, cols: cols})
	}
	return rows, nil
}

// decode devuelve el contenido en UTF-8. Un BOM manda; sin BOM, si los bytes no son
// UTF-8 válido se interpretan como ISO-8859-1.
func decode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(raw) {
		fallback = charmap.ISO8859_1.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	if err != nil {
		return "", fmt.Errorf("decodificar CSV: %w", err)
	}
	return string(out), nil
}
