package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InflowItemRequest ingrediente comprado; cantidad y precio en formato local ("1.234,56").
type InflowItemRequest struct {
	IngredientID string `json:"id"`
	Quantity     string `json:"quantity"`
	Price        string `json:"price"`
	Unit         string `json:"unit"` // g, kg, unit
}

// OutflowItemRequest producto vendido.
type OutflowItemRequest struct {
	ProductID string `json:"id"`
	Quantity  string `json:"quantity"`
}

// CreateMovementRequest entrada para registrar un movimiento. Type "in" usa Ingredients, "out" usa Products.
type CreateMovementRequest struct {
	Type        string               `json:"type"`
	Commentary  string               `json:"commentary"`
	Ingredients []InflowItemRequest  `json:"ingredients"`
	Products    []OutflowItemRequest `json:"products"`
}

// ListMovementsRequest filtros del listado de movimientos (fechas YYYY-MM-DD, ambas o ninguna).
type ListMovementsRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	PageRequest
}

// ReportRequest período del reporte PDF.
type ReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// InflowLineResponse línea de entrada.
type InflowLineResponse struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

// OutflowLineResponse línea de salida.
type OutflowLineResponse struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// MovementResponse salida de un movimiento (con líneas en el detalle).
type MovementResponse struct {
	ID          string                `json:"id"`
	User        string                `json:"user"`
	Value       decimal.Decimal       `json:"value"`
	Type        string                `json:"type"`
	Date        time.Time             `json:"date"`
	Commentary  string                `json:"commentary"`
	Ingredients []InflowLineResponse  `json:"ingredients,omitempty"`
	Products    []OutflowLineResponse `json:"products,omitempty"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
