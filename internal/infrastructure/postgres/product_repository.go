package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// La receta vive en recipe_items y se lee y escribe junto con el producto.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, price, created_at, updated_at`

// Create persiste el producto y su receta.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Price, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return r.insertRecipe(ctx, p)
}

func (r *ProductRepo) insertRecipe(ctx context.Context, p *entity.Product) error {
	if len(p.Recipe) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ri := range p.Recipe {
		batch.Queue(`INSERT INTO recipe_items (product_id, ingredient_id, quantity) VALUES ($1, $2, $3)`,
			p.ID, ri.IngredientID, ri.Quantity)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range p.Recipe {
		if _, err := br.Exec(); err != nil {
			switch {
			case isUniqueViolation(err):
				return domain.ErrDuplicate
			case isForeignKeyViolation(err):
				return fmt.Errorf("%w: ingrediente de la receta", domain.ErrNotFound)
			}
			return fmt.Errorf("insert recipe item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un producto con su receta.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByName busca por nombre sin distinguir mayúsculas.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name) = lower($1)`, name)
}

func (r *ProductRepo) getOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadRecipes(ctx, []*entity.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// loadRecipes completa la receta de cada producto con una sola consulta.
func (r *ProductRepo) loadRecipes(ctx context.Context, products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		p.Recipe = []entity.RecipeItem{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT ri.product_id, ri.ingredient_id, i.name, ri.quantity
		FROM recipe_items ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.product_id = ANY($1::uuid[])
		ORDER BY lower(i.name)`, ids)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			productID string
			ri        entity.RecipeItem
		)
		if err := rows.Scan(&productID, &ri.IngredientID, &ri.IngredientName, &ri.Quantity); err != nil {
			return fmt.Errorf("scan recipe item: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Recipe = append(p.Recipe, ri)
		}
	}
	return rows.Err()
}

// Update actualiza nombre y precio y reemplaza la receta completa.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, price = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM recipe_items WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear recipe: %w", err)
	}
	return r.insertRecipe(ctx, p)
}

// List filtra por nombre (contiene) y precio exacto, ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var (
		where []string
		args  []any
	)
	if f.Name != "" {
		args = append(args, likePattern(f.Name))
		where = append(where, fmt.Sprintf(`name ILIKE $%d`, len(args)))
	}
	if f.Price != nil {
		args = append(args, *f.Price)
		where = append(where, fmt.Sprintf(`price = $%d`, len(args)))
	}
	query := `SELECT ` + productColumns + `, COUNT(*) OVER() FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY lower(name) LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	var (
		list  []*entity.Product
		total int
	)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt, &total); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadRecipes(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Delete elimina un producto; la receta cae en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
