package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
)

func TestParsePeriod_TreintaDiasInclusivo(t *testing.T) {
	p, err := inventory.ParsePeriod("2024-01-01", "2024-01-31", nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), p.End)
	assert.Equal(t, 30, p.Days())
	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.End.Add(time.Second)))
	assert.False(t, p.Contains(p.Start.Add(-time.Nanosecond)))
}

func TestParsePeriod_Errores(t *testing.T) {
	_, err := inventory.ParsePeriod("2024-01-01", "2024-02-01", nil)
	assert.ErrorIs(t, err, domain.ErrPeriodTooLong)

	_, err = inventory.ParsePeriod("2024-02-01", "2024-01-01", nil)
	assert.ErrorIs(t, err, domain.ErrNegativePeriod)

	_, err = inventory.ParsePeriod("2024-13-01", "2024-01-01", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = inventory.ParsePeriod("01/01/2024", "2024-01-02", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = inventory.ParsePeriod("2024-01-01", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestParsePeriod_MismoDia(t *testing.T) {
	p, err := inventory.ParsePeriod("2024-03-10", "2024-03-10", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Days())
}

func TestParsePeriod_ZonaHoraria(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	p, err := inventory.ParsePeriod("2024-05-01", "2024-05-02", loc)
	require.NoError(t, err)

	assert.Equal(t, loc, p.Start.Location())
	assert.Equal(t, time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), p.Start.UTC())
	assert.Equal(t, time.Date(2024, 5, 3, 2, 59, 59, 999999999, time.UTC), p.End.UTC())
}
