package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// IngredientUseCase casos de uso CRUD para ingredientes. El stock solo se modifica aquí al
// crear o corregir manualmente; el flujo normal pasa por los movimientos.
type IngredientUseCase struct {
	repo       repository.IngredientRepository
	categories repository.CategoryRepository
}

// NewIngredientUseCase construye el caso de uso.
func NewIngredientUseCase(repo repository.IngredientRepository, categories repository.CategoryRepository) *IngredientUseCase {
	return &IngredientUseCase{repo: repo, categories: categories}
}

// Create crea un ingrediente. Cantidad y mínimo aceptan cero; la unidad debe ser g, kg o unit.
func (uc *IngredientUseCase) Create(ctx context.Context, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	ing := &entity.Ingredient{ID: uuid.New().String()}
	if err := uc.apply(ctx, ing, in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, ing.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	ing.CreatedAt, ing.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

// GetByID obtiene un ingrediente.
func (uc *IngredientUseCase) GetByID(ctx context.Context, id string) (*dto.IngredientResponse, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	return toIngredientResponse(ing), nil
}

// Update reemplaza los datos del ingrediente.
func (uc *IngredientUseCase) Update(ctx context.Context, id string, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.apply(ctx, ing, in); err != nil {
		return nil, err
	}
	other, err := uc.repo.GetByName(ctx, ing.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != ing.ID {
		return nil, domain.ErrDuplicate
	}
	ing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

// apply valida la entrada y la vuelca sobre ing; acumula todos los errores de validación.
func (uc *IngredientUseCase) apply(ctx context.Context, ing *entity.Ingredient, in dto.IngredientRequest) error {
	var errs domain.ValidationErrors
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "name", Message: "El nombre es obligatorio"})
	}
	qty, err := optionalNonNegative(in.Quantity, "la cantidad")
	if v, ok := domain.AsValidation(err); ok {
		errs = append(errs, v...)
	}
	minQty, err := optionalNonNegative(in.MinQuantity, "la cantidad mínima")
	if v, ok := domain.AsValidation(err); ok {
		errs = append(errs, v...)
	}
	unit := entity.Unit(in.Unit)
	if !unit.Valid() {
		errs = append(errs, domain.Violation{
			Kind: domain.ErrInvalidInput, Subject: "unit",
			Message: fmt.Sprintf("Unidad inválida: %q (g, kg, unit)", in.Unit),
		})
	}
	var categoryID *string
	if in.CategoryID != nil && *in.CategoryID != "" {
		c, err := uc.categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			errs = append(errs, domain.Violation{Kind: domain.ErrNotFound, Subject: "category_id", Message: "La categoría no existe"})
		} else {
			id := c.ID
			categoryID = &id
		}
	}
	if len(errs) > 0 {
		return errs
	}
	ing.Name = name
	ing.CategoryID = categoryID
	ing.Quantity = qty.Round(3)
	ing.MinQuantity = minQty.Round(3)
	ing.Unit = unit
	return nil
}

// List lista ingredientes con filtros (nombre, categoría, cantidad, mínimo) y paginación.
func (uc *IngredientUseCase) List(ctx context.Context, in dto.IngredientFilterRequest) (*dto.IngredientListResponse, error) {
	in.DefaultPage()
	filter := repository.IngredientFilter{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
	}
	var errs domain.ValidationErrors
	if in.Quantity != "" {
		q, err := inventory.ParseNonNegative(in.Quantity, "qte")
		if v, ok := domain.AsValidation(err); ok {
			errs = append(errs, v...)
		} else {
			filter.Quantity = &q
		}
	}
	if in.MinQuantity != "" {
		q, err := inventory.ParseNonNegative(in.MinQuantity, "min_qte")
		if v, ok := domain.AsValidation(err); ok {
			errs = append(errs, v...)
		} else {
			filter.MinQuantity = &q
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	list, total, err := uc.repo.List(ctx, filter, in.Limit(), in.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		items = append(items, *toIngredientResponse(ing))
	}
	return &dto.IngredientListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// LowStock ingredientes con stock por debajo del mínimo (lista de reposición).
func (uc *IngredientUseCase) LowStock(ctx context.Context) ([]dto.IngredientResponse, error) {
	list, err := uc.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		items = append(items, *toIngredientResponse(ing))
	}
	return items, nil
}

// Delete elimina un ingrediente; se quita de las recetas que lo usaban.
func (uc *IngredientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toIngredientResponse(i *entity.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:           i.ID,
		Name:         i.Name,
		CategoryID:   i.CategoryID,
		Quantity:     i.Quantity,
		MinQuantity:  i.MinQuantity,
		Unit:         string(i.Unit),
		BelowMinimum: i.BelowMinimum(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// optionalNonNegative un campo vacío vale cero.
func optionalNonNegative(raw, subject string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return inventory.ParseNonNegative(raw, subject)
}
