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

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación del puerto IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador de persistencia para ingredientes.
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `i.id, i.name, i.category_id, i.quantity, i.min_quantity, i.unit, i.created_at, i.updated_at`

func scanIngredient(row pgx.Row, extra ...any) (*entity.Ingredient, error) {
	var i entity.Ingredient
	dest := append([]any{&i.ID, &i.Name, &i.CategoryID, &i.Quantity, &i.MinQuantity, &i.Unit, &i.CreatedAt, &i.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IngredientRepo) Create(ctx context.Context, i *entity.Ingredient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingredients (id, name, category_id, quantity, min_quantity, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.Name, i.CategoryID, i.Quantity, i.MinQuantity, string(i.Unit), i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría", domain.ErrNotFound)
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+ingredientColumns+` FROM ingredients i WHERE i.id = $1`, id)
}

// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene efecto dentro de una tx.
func (r *IngredientRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+ingredientColumns+` FROM ingredients i WHERE i.id = $1 FOR UPDATE`, id)
}

func (r *IngredientRepo) GetByName(ctx context.Context, name string) (*entity.Ingredient, error) {
	return r.getOne(ctx, `SELECT `+ingredientColumns+` FROM ingredients i WHERE lower(i.name) = lower($1)`, name)
}

func (r *IngredientRepo) getOne(ctx context.Context, query, arg string) (*entity.Ingredient, error) {
	i, err := scanIngredient(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return i, nil
}

func (r *IngredientRepo) Update(ctx context.Context, i *entity.Ingredient) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE ingredients
		SET name = $2, category_id = $3, quantity = $4, min_quantity = $5, unit = $6, updated_at = $7
		WHERE id = $1`,
		i.ID, i.Name, i.CategoryID, i.Quantity, i.MinQuantity, string(i.Unit), i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: categoría", domain.ErrNotFound)
		}
		return fmt.Errorf("update ingredient: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantities envía todos los UPDATE de stock en un solo batch.
func (r *IngredientRepo) UpdateQuantities(ctx context.Context, list []*entity.Ingredient) error {
	if len(list) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, i := range list {
		batch.Queue(`UPDATE ingredients SET quantity = $2, updated_at = now() WHERE id = $1`, i.ID, i.Quantity)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for _, i := range list {
		cmd, err := br.Exec()
		if err != nil {
			return fmt.Errorf("update quantity %s: %w", i.Name, err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, i.ID)
		}
	}
	return nil
}

// List filtra por nombre y nombre de categoría (contiene) y por cantidades exactas.
func (r *IngredientRepo) List(ctx context.Context, f repository.IngredientFilter, limit, offset int) ([]*entity.Ingredient, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add(`i.name ILIKE $%d`, likePattern(f.Name))
	}
	if f.Category != "" {
		add(`c.name ILIKE $%d`, likePattern(f.Category))
	}
	if f.Quantity != nil {
		add(`i.quantity = $%d`, *f.Quantity)
	}
	if f.MinQuantity != nil {
		add(`i.min_quantity = $%d`, *f.MinQuantity)
	}
	query := `SELECT ` + ingredientColumns + `, COUNT(*) OVER()
		FROM ingredients i LEFT JOIN categories c ON c.id = i.category_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY lower(i.name) LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Ingredient
		total int
	)
	for rows.Next() {
		i, err := scanIngredient(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, i)
	}
	return list, total, rows.Err()
}

// ListBelowMinimum ingredientes con stock menor al mínimo, por nombre.
func (r *IngredientRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Ingredient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients i
		WHERE i.quantity < i.min_quantity
		ORDER BY lower(i.name)`)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Delete elimina el ingrediente; sus ítems de receta caen en cascada.
func (r *IngredientRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
