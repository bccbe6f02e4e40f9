package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y sus recetas.
type ProductUseCase struct {
	repo        repository.ProductRepository
	ingredients repository.IngredientRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ingredients repository.IngredientRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, ingredients: ingredients}
}

// Create crea un producto con su receta.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{ID: uuid.New().String()}
	if err := uc.apply(ctx, p, in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto con su receta.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update reemplaza nombre, precio y receta completa.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.apply(ctx, p, in); err != nil {
		return nil, err
	}
	other, err := uc.repo.GetByName(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != p.ID {
		return nil, domain.ErrDuplicate
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// apply valida nombre, precio y receta; acumula todos los errores.
func (uc *ProductUseCase) apply(ctx context.Context, p *entity.Product, in dto.ProductRequest) error {
	var errs domain.ValidationErrors
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, domain.Violation{Kind: domain.ErrInvalidInput, Subject: "name", Message: "El nombre es obligatorio"})
	}
	price, err := inventory.ParseNumeric(in.Price, "el precio")
	if v, ok := domain.AsValidation(err); ok {
		errs = append(errs, v...)
	}

	recipe := make([]entity.RecipeItem, 0, len(in.Recipe))
	seen := make(map[string]bool, len(in.Recipe))
	for _, item := range in.Recipe {
		ing, err := uc.ingredients.GetByID(ctx, item.IngredientID)
		if err != nil {
			return err
		}
		if ing == nil {
			errs = append(errs, domain.Violation{
				Kind: domain.ErrNotFound, Subject: item.IngredientID,
				Message: fmt.Sprintf("El ingrediente %s no existe", item.IngredientID),
			})
			continue
		}
		if seen[ing.ID] {
			errs = append(errs, domain.Violation{
				Kind: domain.ErrDuplicate, Subject: ing.Name,
				Message: fmt.Sprintf("El ingrediente %s está repetido en la receta", ing.Name),
			})
			continue
		}
		seen[ing.ID] = true
		qty, err := inventory.ParseNumeric(item.Quantity, ing.Name)
		if v, ok := domain.AsValidation(err); ok {
			errs = append(errs, v...)
			continue
		}
		recipe = append(recipe, entity.RecipeItem{IngredientID: ing.ID, IngredientName: ing.Name, Quantity: qty.Round(3)})
	}
	if len(errs) > 0 {
		return errs
	}
	p.Name = name
	p.Price = price.Round(2)
	p.Recipe = recipe
	return nil
}

// List lista productos filtrando por nombre y/o precio exacto.
func (uc *ProductUseCase) List(ctx context.Context, name, price string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	filter := repository.ProductFilter{Name: strings.TrimSpace(name)}
	if price != "" {
		v, err := inventory.ParseNumeric(price, "price")
		if err != nil {
			return nil, err
		}
		filter.Price = &v
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}

// Delete elimina un producto y su receta. Los movimientos ya registrados conservan su copia del nombre.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	recipe := make([]dto.RecipeItemResponse, 0, len(p.Recipe))
	for _, ri := range p.Recipe {
		recipe = append(recipe, dto.RecipeItemResponse{
			IngredientID:   ri.IngredientID,
			IngredientName: ri.IngredientName,
			Quantity:       ri.Quantity,
		})
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Recipe:    recipe,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
