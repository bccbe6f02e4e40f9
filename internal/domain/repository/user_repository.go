package repository

import (
	"context"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

// UserFilter filtros opcionales del listado de cuentas.
type UserFilter struct {
	FirstName string
	Email     string
	Role      string
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail devuelve (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, int, error)
	Delete(ctx context.Context, id string) error
}
