package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

// IngredientFilter filtros opcionales del listado de ingredientes (vacío = sin filtro).
type IngredientFilter struct {
	Name        string           // contiene, sin distinguir mayúsculas
	Category    string           // nombre de la categoría, contiene
	Quantity    *decimal.Decimal // stock exacto
	MinQuantity *decimal.Decimal // mínimo exacto
}

// IngredientRepository define el puerto de persistencia para Ingredient.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	// Los Get* devuelven (nil, nil) si no existe; Delete devuelve domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	// GetByIDForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Ingredient, error)
	GetByName(ctx context.Context, name string) (*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	// UpdateQuantities escribe el stock de varios ingredientes en una sola operación.
	UpdateQuantities(ctx context.Context, ingredients []*entity.Ingredient) error
	List(ctx context.Context, filter IngredientFilter, limit, offset int) ([]*entity.Ingredient, int, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Ingredient, error)
	Delete(ctx context.Context, id string) error
}
