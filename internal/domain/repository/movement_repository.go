package repository

import (
	"context"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
)

// MovementRepository define el puerto de persistencia para movimientos y sus líneas.
type MovementRepository interface {
	// Create inserta el movimiento y todas sus líneas; asigna IDs y fecha.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List más recientes primero, sin líneas.
	List(ctx context.Context, limit, offset int) ([]*entity.Movement, error)
	// ListByPeriod movimientos con Start <= fecha <= End, más recientes primero, con líneas.
	ListByPeriod(ctx context.Context, period inventory.Period) ([]*entity.Movement, error)
	Count(ctx context.Context) (int, error)
	// Delete elimina el movimiento y sus líneas; no toca el stock.
	Delete(ctx context.Context, id string) error
}
