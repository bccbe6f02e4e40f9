package entity

import "time"

// Category agrupa ingredientes (bebidas, lácteos, etc.).
// El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
