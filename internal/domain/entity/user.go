package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

// User representa una cuenta del back-office.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // employee, admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre completo; se usa como responsable de los movimientos.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
