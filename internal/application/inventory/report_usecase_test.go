package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/memory"
)

type fakeGenerator struct {
	got *appinventory.MovementReport
}

func (g *fakeGenerator) GenerateMovementReport(_ context.Context, r *appinventory.MovementReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF-fake"), nil
}

func TestReport_TotalesYBalance(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	create := func(day int, typ, value string) {
		d := time.Date(2024, 6, day, 10, 0, 0, 0, time.UTC)
		st.Now = func() time.Time { return d }
		require.NoError(t, st.Movements().Create(ctx, &entity.Movement{Type: typ, Value: decimal.RequireFromString(value)}))
	}
	create(1, entity.MovementTypeIn, "100.00")
	create(2, entity.MovementTypeOut, "80.50")
	create(3, entity.MovementTypeOut, "45.00")
	create(20, entity.MovementTypeIn, "999")

	gen := &fakeGenerator{}
	uc := appinventory.NewReportUseCase(st.Movements(), gen, time.UTC, zerolog.Nop())

	pdf, filename, err := uc.Generate(ctx, "2024-06-01", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "relatorio_2024-06-01_2024-06-10.pdf", filename)

	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Movements, 3)
	assert.True(t, gen.got.TotalIn.Equal(decimal.RequireFromString("100")))
	assert.True(t, gen.got.TotalOut.Equal(decimal.RequireFromString("125.5")))
	assert.True(t, gen.got.Balance.Equal(decimal.RequireFromString("25.5")))
}

func TestReport_PeriodoInvalido(t *testing.T) {
	st := memory.NewStore()
	gen := &fakeGenerator{}
	uc := appinventory.NewReportUseCase(st.Movements(), gen, time.UTC, zerolog.Nop())

	_, _, err := uc.Generate(context.Background(), "2024-01-01", "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrPeriodTooLong)
	assert.Nil(t, gen.got)
}
