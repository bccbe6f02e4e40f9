package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// IngredientRequest entrada para crear o actualizar un ingrediente; cantidades en formato local.
type IngredientRequest struct {
	Name        string  `json:"name"`
	CategoryID  *string `json:"category_id"`
	Quantity    string  `json:"quantity"`
	MinQuantity string  `json:"min_quantity"`
	Unit        string  `json:"unit"`
}

// IngredientFilterRequest filtros de listado (query string).
type IngredientFilterRequest struct {
	Name        string `query:"name"`
	Category    string `query:"category"`
	Quantity    string `query:"qte"`
	MinQuantity string `query:"min_qte"`
	PageRequest
}

// IngredientResponse salida de un ingrediente.
type IngredientResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   *string         `json:"category_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	Unit         string          `json:"unit"`
	BelowMinimum bool            `json:"below_minimum"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IngredientListResponse lista paginada de ingredientes.
type IngredientListResponse struct {
	Items []IngredientResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// RecipeItemRequest ingrediente de la receta con su cantidad por unidad vendida.
type RecipeItemRequest struct {
	IngredientID string `json:"ingredient_id"`
	Quantity     string `json:"quantity"`
}

// ProductRequest entrada para crear o actualizar un producto (la receta se reemplaza completa).
type ProductRequest struct {
	Name   string              `json:"name"`
	Price  string              `json:"price"`
	Recipe []RecipeItemRequest `json:"recipe"`
}

// RecipeItemResponse ítem de receta.
type RecipeItemResponse struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Price     decimal.Decimal      `json:"price"`
	Recipe    []RecipeItemResponse `json:"recipe"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
