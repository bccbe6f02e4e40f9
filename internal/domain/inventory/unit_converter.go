package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

var thousand = decimal.NewFromInt(1000)

type unitPair struct{ from, to entity.Unit }

var conversions = map[unitPair]func(decimal.Decimal) decimal.Decimal{
	{entity.UnitGram, entity.UnitKilogram}: func(q decimal.Decimal) decimal.Decimal { return q.Div(thousand) },
	{entity.UnitKilogram, entity.UnitGram}: func(q decimal.Decimal) decimal.Decimal { return q.Mul(thousand) },
	{entity.UnitGram, entity.UnitGram}:         identity,
	{entity.UnitKilogram, entity.UnitKilogram}: identity,
	{entity.UnitUnit, entity.UnitUnit}:         identity,
}

func identity(q decimal.Decimal) decimal.Decimal { return q }

// ConvertUnit convierte q de la unidad from a la unidad to.
// Pares no soportados (p. ej. unit -> g) devuelven ErrUnsupportedConversion.
func ConvertUnit(q decimal.Decimal, from, to entity.Unit) (decimal.Decimal, error) {
	fn, ok := conversions[unitPair{from, to}]
	if !ok {
		return decimal.Zero, domain.NewValidation(domain.ErrUnsupportedConversion, string(from),
			fmt.Sprintf("No es posible convertir de %q a %q", from, to))
	}
	return fn(q), nil
}
