package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/domain/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/repository"
)

var (
	_ repository.CategoryRepository   = (*CategoryRepo)(nil)
	_ repository.IngredientRepository = (*IngredientRepo)(nil)
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.MovementRepository   = (*MovementRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
)

func sameName(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ── Categorías ──────────────────────────────────────────────────────────────

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ v view }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.write(func(s *state) error {
		for _, o := range s.categories {
			if sameName(o.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(s *state) error {
		if c, ok := s.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(s *state) error {
		for _, c := range s.categories {
			if sameName(c.Name, name) {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, o := range s.categories {
			if id != c.ID && sameName(o.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, int, error) {
	var all []*entity.Category
	err := r.v.read(func(s *state) error {
		for _, c := range s.categories {
			c := c
			all = append(all, &c)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
	return page(all, limit, offset), len(all), err
}

// Delete elimina la categoría y deja sin categoría a sus ingredientes.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.categories[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.categories, id)
		for k, ing := range s.ingredients {
			if ing.CategoryID != nil && *ing.CategoryID == id {
				ing.CategoryID = nil
				s.ingredients[k] = ing
			}
		}
		return nil
	})
}

// ── Ingredientes ────────────────────────────────────────────────────────────

// IngredientRepo ingredientes en memoria.
type IngredientRepo struct{ v view }

func copyIngredient(i entity.Ingredient) *entity.Ingredient {
	if i.CategoryID != nil {
		id := *i.CategoryID
		i.CategoryID = &id
	}
	return &i
}

func (r *IngredientRepo) Create(_ context.Context, ing *entity.Ingredient) error {
	return r.v.write(func(s *state) error {
		for _, o := range s.ingredients {
			if sameName(o.Name, ing.Name) {
				return domain.ErrDuplicate
			}
		}
		if ing.ID == "" {
			ing.ID = uuid.New().String()
		}
		s.ingredients[ing.ID] = *copyIngredient(*ing)
		return nil
	})
}

func (r *IngredientRepo) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	var out *entity.Ingredient
	err := r.v.read(func(s *state) error {
		if i, ok := s.ingredients[id]; ok {
			out = copyIngredient(i)
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate en memoria el lock lo da la transacción (Store.Run serializa).
func (r *IngredientRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.GetByID(ctx, id)
}

func (r *IngredientRepo) GetByName(_ context.Context, name string) (*entity.Ingredient, error) {
	var out *entity.Ingredient
	err := r.v.read(func(s *state) error {
		for _, i := range s.ingredients {
			if sameName(i.Name, name) {
				out = copyIngredient(i)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *IngredientRepo) Update(_ context.Context, ing *entity.Ingredient) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.ingredients[ing.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, o := range s.ingredients {
			if id != ing.ID && sameName(o.Name, ing.Name) {
				return domain.ErrDuplicate
			}
		}
		s.ingredients[ing.ID] = *copyIngredient(*ing)
		// los nombres de receta son una vista del ingrediente
		for pid, p := range s.products {
			changed := false
			recipe := append([]entity.RecipeItem(nil), p.Recipe...)
			for k := range recipe {
				if recipe[k].IngredientID == ing.ID {
					recipe[k].IngredientName = ing.Name
					changed = true
				}
			}
			if changed {
				p.Recipe = recipe
				s.products[pid] = p
			}
		}
		return nil
	})
}

func (r *IngredientRepo) UpdateQuantities(_ context.Context, list []*entity.Ingredient) error {
	return r.v.write(func(s *state) error {
		now := r.v.now()
		for _, ing := range list {
			cur, ok := s.ingredients[ing.ID]
			if !ok {
				return domain.ErrNotFound
			}
			cur.Quantity = ing.Quantity
			cur.UpdatedAt = now
			s.ingredients[ing.ID] = cur
		}
		return nil
	})
}

func (r *IngredientRepo) List(_ context.Context, f repository.IngredientFilter, limit, offset int) ([]*entity.Ingredient, int, error) {
	var all []*entity.Ingredient
	err := r.v.read(func(s *state) error {
		for _, i := range s.ingredients {
			if f.Name != "" && !containsFold(i.Name, f.Name) {
				continue
			}
			if f.Category != "" {
				if i.CategoryID == nil {
					continue
				}
				c, ok := s.categories[*i.CategoryID]
				if !ok || !containsFold(c.Name, f.Category) {
					continue
				}
			}
			if f.Quantity != nil && !i.Quantity.Equal(*f.Quantity) {
				continue
			}
			if f.MinQuantity != nil && !i.MinQuantity.Equal(*f.MinQuantity) {
				continue
			}
			all = append(all, copyIngredient(i))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
	return page(all, limit, offset), len(all), err
}

func (r *IngredientRepo) ListBelowMinimum(_ context.Context) ([]*entity.Ingredient, error) {
	var out []*entity.Ingredient
	err := r.v.read(func(s *state) error {
		for _, i := range s.ingredients {
			if i.BelowMinimum() {
				out = append(out, copyIngredient(i))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, err
}

// Delete elimina el ingrediente y lo quita de las recetas.
func (r *IngredientRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.ingredients[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.ingredients, id)
		for pid, p := range s.products {
			recipe := make([]entity.RecipeItem, 0, len(p.Recipe))
			for _, ri := range p.Recipe {
				if ri.IngredientID != id {
					recipe = append(recipe, ri)
				}
			}
			if len(recipe) != len(p.Recipe) {
				p.Recipe = recipe
				s.products[pid] = p
			}
		}
		return nil
	})
}

// ── Productos ───────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func copyProduct(p entity.Product) *entity.Product {
	p.Recipe = append([]entity.RecipeItem(nil), p.Recipe...)
	return &p
}

// withNames completa IngredientName desde el estado actual.
func withNames(s *state, p *entity.Product) *entity.Product {
	for i := range p.Recipe {
		if ing, ok := s.ingredients[p.Recipe[i].IngredientID]; ok {
			p.Recipe[i].IngredientName = ing.Name
		}
	}
	return p
}

func validRecipe(s *state, p *entity.Product) error {
	seen := map[string]bool{}
	for _, ri := range p.Recipe {
		if _, ok := s.ingredients[ri.IngredientID]; !ok {
			return domain.ErrNotFound
		}
		if seen[ri.IngredientID] {
			return domain.ErrDuplicate
		}
		seen[ri.IngredientID] = true
	}
	return nil
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(s *state) error {
		for _, o := range s.products {
			if sameName(o.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		if err := validRecipe(s, p); err != nil {
			return err
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		s.products[p.ID] = *copyProduct(*p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = withNames(s, copyProduct(p))
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(s *state) error {
		for _, p := range s.products {
			if sameName(p.Name, name) {
				out = withNames(s, copyProduct(p))
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, o := range s.products {
			if id != p.ID && sameName(o.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		if err := validRecipe(s, p); err != nil {
			return err
		}
		s.products[p.ID] = *copyProduct(*p)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var all []*entity.Product
	err := r.v.read(func(s *state) error {
		for _, p := range s.products {
			if f.Name != "" && !containsFold(p.Name, f.Name) {
				continue
			}
			if f.Price != nil && !p.Price.Equal(*f.Price) {
				continue
			}
			all = append(all, withNames(s, copyProduct(p)))
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name) })
	return page(all, limit, offset), len(all), err
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.products[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.products, id)
		return nil
	})
}

// ── Movimientos ─────────────────────────────────────────────────────────────

// MovementRepo movimientos en memoria; las líneas viven dentro del movimiento.
type MovementRepo struct{ v view }

func copyMovement(m entity.Movement, withLines bool) *entity.Movement {
	if withLines {
		m.Inflows = append([]entity.MovementInflowLine(nil), m.Inflows...)
		m.Outflows = append([]entity.MovementOutflowLine(nil), m.Outflows...)
	} else {
		m.Inflows, m.Outflows = nil, nil
	}
	return &m
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(s *state) error {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		m.Date = r.v.now()
		for i := range m.Inflows {
			m.Inflows[i].ID = uuid.New().String()
			m.Inflows[i].MovementID = m.ID
		}
		for i := range m.Outflows {
			m.Outflows[i].ID = uuid.New().String()
			m.Outflows[i].MovementID = m.ID
		}
		s.movements[m.ID] = *copyMovement(*m, true)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.read(func(s *state) error {
		if m, ok := s.movements[id]; ok {
			out = copyMovement(m, true)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) sorted(s *state, keep func(entity.Movement) bool, withLines bool) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range s.movements {
		if keep(m) {
			out = append(out, copyMovement(m, withLines))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (r *MovementRepo) List(_ context.Context, limit, offset int) ([]*entity.Movement, error) {
	var all []*entity.Movement
	err := r.v.read(func(s *state) error {
		all = r.sorted(s, func(entity.Movement) bool { return true }, false)
		return nil
	})
	return page(all, limit, offset), err
}

func (r *MovementRepo) ListByPeriod(_ context.Context, p inventory.Period) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.v.read(func(s *state) error {
		out = r.sorted(s, func(m entity.Movement) bool { return p.Contains(m.Date) }, true)
		return nil
	})
	return out, err
}

func (r *MovementRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.v.read(func(s *state) error {
		n = len(s.movements)
		return nil
	})
	return n, err
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.movements, id)
		return nil
	})
}

// ── Usuarios ────────────────────────────────────────────────────────────────

// UserRepo cuentas en memoria.
type UserRepo struct{ v view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(s *state) error {
		for _, o := range s.users {
			if sameName(o.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(s *state) error {
		for _, u := range s.users {
			if sameName(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		for id, o := range s.users {
			if id != u.ID && sameName(o.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	var all []*entity.User
	err := r.v.read(func(s *state) error {
		for _, u := range s.users {
			if f.FirstName != "" && !containsFold(u.FirstName, f.FirstName) {
				continue
			}
			if f.Email != "" && !containsFold(u.Email, f.Email) {
				continue
			}
			if f.Role != "" && u.Role != f.Role {
				continue
			}
			u := u
			all = append(all, &u)
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].DisplayName()) < strings.ToLower(all[j].DisplayName())
	})
	return page(all, limit, offset), len(all), err
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(s *state) error {
		if _, ok := s.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(s.users, id)
		return nil
	})
}
