package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// LedgerRepos repositorios atados a una misma transacción.
type LedgerRepos struct {
	Ingredients repository.IngredientRepository
	Products    repository.ProductRepository
	Movements   repository.MovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o entra en pánico) se hace Rollback; si no, Commit.
// Garantiza atomicidad para el motor de movimientos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos LedgerRepos) error) error
}

// MovementReport datos del reporte de movimientos de un período.
type MovementReport struct {
	Period      inventory.Period
	Movements   []*entity.Movement
	TotalIn     decimal.Decimal
	TotalOut    decimal.Decimal
	Balance     decimal.Decimal // TotalOut - TotalIn
	GeneratedAt time.Time
}

// ReportGenerator renderiza el reporte (implementación en infrastructure/pdf).
type ReportGenerator interface {
	GenerateMovementReport(ctx context.Context, report *MovementReport) ([]byte, error)
}
