package dto

import "time"

// CreateAccountRequest entrada para crear una cuenta (password en texto, se hashea en use case).
type CreateAccountRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Role            string `json:"role"` // employee | admin
}

// UpdateAccountRequest campos opcionales; la contraseña solo cambia si llegan ambos campos.
type UpdateAccountRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Email           *string `json:"email"`
	Role            *string `json:"role"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
}

// AccountFilterRequest filtros del listado de cuentas.
type AccountFilterRequest struct {
	FirstName string `query:"first_name"`
	Email     string `query:"email"`
	Role      string `query:"role"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de cuentas.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
