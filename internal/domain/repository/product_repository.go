package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

// ProductFilter filtros opcionales del listado de productos.
type ProductFilter struct {
	Name  string // contiene, sin distinguir mayúsculas
	Price *decimal.Decimal
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// La receta se carga y se guarda junto con el producto.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	// Update reemplaza la receta completa.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	Delete(ctx context.Context, id string) error
}
