package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// stockStage copia de trabajo del stock dentro de una transacción. Cada ingrediente se bloquea
// una sola vez; los cambios se acumulan en memoria y se escriben juntos con flush.
type stockStage struct {
	repo  repository.IngredientRepository
	byID  map[string]*entity.Ingredient
	order []*entity.Ingredient
}

func newStockStage(repo repository.IngredientRepository) *stockStage {
	return &stockStage{repo: repo, byID: make(map[string]*entity.Ingredient)}
}

// lock devuelve la copia de trabajo del ingrediente, bloqueando la fila la primera vez.
func (s *stockStage) lock(ctx context.Context, id string) (*entity.Ingredient, error) {
	if ing, ok := s.byID[id]; ok {
		return ing, nil
	}
	ing, err := s.repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, fmt.Errorf("%w: ingrediente %s", domain.ErrNotFound, id)
	}
	s.byID[id] = ing
	s.order = append(s.order, ing)
	return ing, nil
}

// apply fija nuevas cantidades para ingredientes ya bloqueados.
func (s *stockStage) apply(quantities map[string]decimal.Decimal) {
	for id, q := range quantities {
		s.byID[id].Quantity = q
	}
}

// flush escribe el stock de todos los ingredientes tocados.
func (s *stockStage) flush(ctx context.Context) error {
	if len(s.order) == 0 {
		return nil
	}
	return s.repo.UpdateQuantities(ctx, s.order)
}

// collect agrega a dst las violaciones contenidas en errs. Un error que no sea de validación
// se devuelve tal cual para abortar la transacción.
func collect(dst *domain.ValidationErrors, errs ...error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		v, ok := domain.AsValidation(err)
		if !ok {
			return err
		}
		*dst = append(*dst, v...)
	}
	return nil
}
