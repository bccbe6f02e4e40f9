package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
)

func TestConvertUnit_GramosKilos(t *testing.T) {
	got, err := inventory.ConvertUnit(decimal.NewFromInt(1000), entity.UnitGram, entity.UnitKilogram)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1)))

	got, err = inventory.ConvertUnit(decimal.NewFromInt(2), entity.UnitKilogram, entity.UnitGram)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2000)))

	got, err = inventory.ConvertUnit(decimal.NewFromInt(500), entity.UnitGram, entity.UnitKilogram)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.5")))
}

func TestConvertUnit_Identidad(t *testing.T) {
	x := decimal.RequireFromString("12.345")
	for _, u := range []entity.Unit{entity.UnitGram, entity.UnitKilogram, entity.UnitUnit} {
		got, err := inventory.ConvertUnit(x, u, u)
		require.NoError(t, err)
		assert.True(t, got.Equal(x), u)
	}
}

func TestConvertUnit_ParNoSoportado(t *testing.T) {
	pairs := [][2]entity.Unit{
		{entity.UnitUnit, entity.UnitGram},
		{entity.UnitKilogram, entity.UnitUnit},
		{"l", "l"},
	}
	for _, p := range pairs {
		_, err := inventory.ConvertUnit(decimal.NewFromInt(1), p[0], p[1])
		assert.ErrorIs(t, err, domain.ErrUnsupportedConversion, "%s->%s", p[0], p[1])
	}
}
