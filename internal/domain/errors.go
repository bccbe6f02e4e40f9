package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Motor de movimientos.
	ErrInvalidFormat         = errors.New("formato inválido")
	ErrNonPositiveValue      = errors.New("el valor debe ser mayor que 0")
	ErrUnsupportedConversion = errors.New("conversión de unidad no soportada")
	ErrEmptySelection        = errors.New("selección vacía")
	ErrInvalidDate           = errors.New("fecha inválida")
	ErrNegativePeriod        = errors.New("la fecha inicial es posterior a la final")
	ErrPeriodTooLong         = errors.New("el período supera el máximo permitido")
)

// Violation una falla de validación recuperable: tipo (sentinel), sujeto y mensaje legible.
type Violation struct {
	Kind    error
	Subject string
	Message string
}

// ValidationErrors lista de violaciones acumuladas durante una operación.
// Se devuelve completa para que el usuario vea todos los problemas de una vez.
type ValidationErrors []Violation

// NewValidation atajo para una lista con una sola violación.
func NewValidation(kind error, subject, message string) ValidationErrors {
	return ValidationErrors{{Kind: kind, Subject: subject, Message: message}}
}

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validación fallida"
	}
	return strings.Join(v.Messages(), "; ")
}

// Messages devuelve los mensajes en el orden en que se registraron.
func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Message)
	}
	return out
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock) sobre el lote completo.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, e := range v {
		if e.Kind != nil {
			out = append(out, e.Kind)
		}
	}
	return out
}

// Only reporta si todas las violaciones son del tipo dado.
func (v ValidationErrors) Only(kind error) bool {
	if len(v) == 0 {
		return false
	}
	for _, e := range v {
		if !errors.Is(e.Kind, kind) {
			return false
		}
	}
	return true
}

// AsValidation extrae la lista de violaciones de err, si la hay.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
