package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit unidad de medida de un ingrediente.
type Unit string

// Unidades soportadas.
const (
	UnitGram     Unit = "g"
	UnitKilogram Unit = "kg"
	UnitUnit     Unit = "unit"
)

// Valid indica si la unidad es una de las soportadas.
func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitUnit:
		return true
	}
	return false
}

// Ingredient insumo con stock propio. Quantity nunca queda negativo tras una salida.
// CategoryID es nil si no tiene categoría (o si la categoría fue eliminada).
type Ingredient struct {
	ID          string
	Name        string
	CategoryID  *string
	Quantity    decimal.Decimal // 3 decimales
	MinQuantity decimal.Decimal // umbral de reposición
	Unit        Unit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum reporta si el stock actual está por debajo del mínimo configurado.
func (i *Ingredient) BelowMinimum() bool {
	return i.Quantity.LessThan(i.MinQuantity)
}
