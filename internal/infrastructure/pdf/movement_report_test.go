package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
)

func TestMoneyYCantidad(t *testing.T) {
	g := NewMarotoReportGenerator("Café Central")
	assert.Equal(t, "R$ 1.234,50", g.money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ -25,50", g.money(decimal.RequireFromString("-25.5")))
	assert.Equal(t, "10,5", g.quantity(decimal.RequireFromString("10.500")))
}

func TestDetalle(t *testing.T) {
	g := NewMarotoReportGenerator("")
	in := &entity.Movement{
		Type:       entity.MovementTypeIn,
		Commentary: "proveedor nuevo",
		Inflows: []entity.MovementInflowLine{
			{Name: "Café", Quantity: decimal.RequireFromString("10.5"), Unit: entity.UnitKilogram},
		},
	}
	assert.Equal(t, "Café: 10,5 kg\nObs.: proveedor nuevo", g.detail(in))

	out := &entity.Movement{
		Type:     entity.MovementTypeOut,
		Outflows: []entity.MovementOutflowLine{{Name: "Latte", Quantity: 2}},
	}
	assert.Equal(t, "2x Latte", g.detail(out))
}

func TestGenerateMovementReport(t *testing.T) {
	period, err := inventory.ParsePeriod("2024-06-01", "2024-06-10", time.UTC)
	require.NoError(t, err)
	report := &appinventory.MovementReport{
		Period: period,
		Movements: []*entity.Movement{
			{
				Type: entity.MovementTypeIn, User: "Ana", Value: decimal.RequireFromString("100"),
				Date:    time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
				Inflows: []entity.MovementInflowLine{{Name: "Café", Quantity: decimal.NewFromInt(5), Unit: entity.UnitKilogram}},
			},
			{
				Type: entity.MovementTypeOut, User: "Bruno", Value: decimal.RequireFromString("23.80"),
				Date:     time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC),
				Outflows: []entity.MovementOutflowLine{{Name: "Latte", Quantity: 2, Price: decimal.RequireFromString("23.80")}},
			},
		},
		TotalIn:     decimal.RequireFromString("100"),
		TotalOut:    decimal.RequireFromString("23.80"),
		Balance:     decimal.RequireFromString("-76.20"),
		GeneratedAt: time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC),
	}

	pdf, err := NewMarotoReportGenerator("Café Central").GenerateMovementReport(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
