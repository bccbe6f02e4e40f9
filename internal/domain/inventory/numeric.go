package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
)

// Solo dígitos con signo opcional y un único punto decimal (ya normalizado).
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ParseNumeric interpreta un valor con formato local: "." separa miles y "," separa decimales
// ("1.234,56" -> 1234.56). El valor debe ser mayor que 0.
// Nunca entra en pánico: toda entrada inválida se devuelve como domain.ValidationErrors.
func ParseNumeric(raw, subject string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if !plainDecimal.MatchString(cleaned) {
		return decimal.Zero, invalidValue(subject)
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, invalidValue(subject)
	}
	if !v.IsPositive() {
		return decimal.Zero, domain.NewValidation(domain.ErrNonPositiveValue, subject,
			fmt.Sprintf("Ingrese un valor mayor que 0 para %s", subject))
	}
	return v, nil
}

// Escalas de almacenamiento: precios con 2 decimales y cantidades con 3.
const (
	PricePlaces    int32 = 2
	QuantityPlaces int32 = 3
)

// MaxSaleQuantity unidades máximas de un producto en una misma línea de salida.
const MaxSaleQuantity = 1_000_000

// Límites de las columnas NUMERIC(12,2) de valores y NUMERIC(12,3) de stock.
var (
	MaxMoney    = decimal.RequireFromString("9999999999.99")
	MaxQuantity = decimal.RequireFromString("999999999.999")
)

// ParsePrice como ParseNumeric pero admite a lo sumo dos decimales y no más que MaxMoney.
func ParsePrice(raw, subject string) (decimal.Decimal, error) {
	v, err := ParseNumeric(raw, subject)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.Equal(v.Round(PricePlaces)) {
		return decimal.Zero, domain.NewValidation(domain.ErrInvalidFormat, subject,
			fmt.Sprintf("Ingrese un precio con hasta 2 decimales para %s", subject))
	}
	if v.GreaterThan(MaxMoney) {
		return decimal.Zero, TooLarge(subject)
	}
	return v, nil
}

// ParseCount interpreta una cantidad de unidades vendidas: entero entre 1 y MaxSaleQuantity.
func ParseCount(raw, subject string) (int64, error) {
	v, err := ParseNumeric(raw, subject)
	if err != nil {
		return 0, err
	}
	if !v.IsInteger() {
		return 0, domain.NewValidation(domain.ErrInvalidFormat, subject,
			fmt.Sprintf("Ingrese una cantidad entera para %s", subject))
	}
	if v.GreaterThan(decimal.NewFromInt(MaxSaleQuantity)) {
		return 0, TooLarge(subject)
	}
	return v.IntPart(), nil
}

// TooLarge violación para valores que no caben en el almacenamiento.
func TooLarge(subject string) domain.ValidationErrors {
	return domain.NewValidation(domain.ErrInvalidFormat, subject,
		fmt.Sprintf("El valor de %s supera el máximo permitido", subject))
}

// ParseNonNegative como ParseNumeric pero acepta cero (stock inicial y mínimos en el CRUD).
func ParseNonNegative(raw, subject string) (decimal.Decimal, error) {
	v, err := ParseNumeric(raw, subject)
	if err == nil {
		return v, nil
	}
	if vErrs, ok := domain.AsValidation(err); ok && vErrs.Only(domain.ErrNonPositiveValue) {
		cleaned := strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(raw), ".", ""), ",", ".")
		if d, perr := decimal.NewFromString(cleaned); perr == nil && d.IsZero() {
			return decimal.Zero, nil
		}
		return decimal.Zero, domain.NewValidation(domain.ErrNonPositiveValue, subject,
			fmt.Sprintf("Ingrese un valor mayor o igual que 0 para %s", subject))
	}
	return decimal.Zero, err
}

func invalidValue(subject string) error {
	return domain.NewValidation(domain.ErrInvalidFormat, subject,
		fmt.Sprintf("Ingrese un valor válido para %s", subject))
}
