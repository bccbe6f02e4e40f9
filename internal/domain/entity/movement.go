package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
const (
	MovementTypeIn  = "in"  // entrada (compra de ingredientes)
	MovementTypeOut = "out" // salida (venta de productos)
)

// Movement registro inmutable de una entrada o salida. Solo se crea desde el motor de
// movimientos y solo se modifica al eliminarse (junto con sus líneas).
type Movement struct {
	ID         string
	User       string // nombre del responsable al momento del registro
	Value      decimal.Decimal
	Type       string
	Date       time.Time
	Commentary string
	Inflows    []MovementInflowLine
	Outflows   []MovementOutflowLine
}

// IsInflow atajo para Type == MovementTypeIn.
func (m *Movement) IsInflow() bool { return m.Type == MovementTypeIn }

// MovementInflowLine línea de entrada. Guarda copia del nombre y la unidad del ingrediente.
type MovementInflowLine struct {
	ID         string
	MovementID string
	Name       string
	Quantity   decimal.Decimal
	Unit       Unit
	Price      decimal.Decimal
}

// MovementOutflowLine línea de salida; Price es el valor de la línea (precio × cantidad).
type MovementOutflowLine struct {
	ID         string
	MovementID string
	Name       string
	Quantity   int64
	Price      decimal.Decimal
}
