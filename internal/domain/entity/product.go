package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible. Cada venta descuenta del stock los ingredientes de su receta.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // 2 decimales
	Recipe    []RecipeItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecipeItem cantidad de un ingrediente consumida por unidad vendida, en la unidad del ingrediente.
// Único por (producto, ingrediente).
type RecipeItem struct {
	IngredientID   string
	IngredientName string
	Quantity       decimal.Decimal
}
