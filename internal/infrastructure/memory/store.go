// Package memory implementa los puertos de persistencia en memoria (DB_DRIVER=memory y tests).
// Las transacciones trabajan sobre una copia del estado que solo se publica al confirmar,
// por lo que un error o pánico dentro de Run no deja rastro.
package memory

import (
	"context"
	"sync"
	"time"

	appinventory "github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

var _ appinventory.TxRunner = (*Store)(nil)

type state struct {
	categories  map[string]entity.Category
	ingredients map[string]entity.Ingredient
	products    map[string]entity.Product
	movements   map[string]entity.Movement
	users       map[string]entity.User
}

func newState() *state {
	return &state{
		categories:  map[string]entity.Category{},
		ingredients: map[string]entity.Ingredient{},
		products:    map[string]entity.Product{},
		movements:   map[string]entity.Movement{},
		users:       map[string]entity.User{},
	}
}

// clone copia los mapas. Los slices de las entidades se copian al escribir, nunca se mutan
// en sitio, así que compartirlos entre copias es seguro.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.ingredients {
		c.ingredients[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store base de datos en memoria. Un único mutex serializa transacciones y escrituras.
type Store struct {
	mu   sync.Mutex
	data *state
	// Now reloj usado para fechas de movimientos y auditoría (reemplazable en tests).
	Now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState(), Now: time.Now}
}

// view acceso al estado: directo (con lock) o dentro de una transacción (lock ya tomado).
type view interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
	now() time.Time
}

type storeView struct{ st *Store }

func (v storeView) read(fn func(s *state) error) error {
	v.st.mu.Lock()
	defer v.st.mu.Unlock()
	return fn(v.st.data)
}

// write aplica fn sobre una copia y la publica solo si no hubo error.
func (v storeView) write(fn func(s *state) error) error {
	v.st.mu.Lock()
	defer v.st.mu.Unlock()
	c := v.st.data.clone()
	if err := fn(c); err != nil {
		return err
	}
	v.st.data = c
	return nil
}

func (v storeView) now() time.Time { return v.st.Now() }

type txView struct {
	data *state
	clk  func() time.Time
}

func (v txView) read(fn func(s *state) error) error  { return fn(v.data) }
func (v txView) write(fn func(s *state) error) error { return fn(v.data) }
func (v txView) now() time.Time                      { return v.clk() }

// Run ejecuta fn con repositorios atados a una copia del estado. Commit = publicar la copia.
// No llamar a repositorios del Store (fuera de repos) desde fn: el lock ya está tomado.
func (st *Store) Run(ctx context.Context, fn func(repos appinventory.LedgerRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	tx := txView{data: st.data.clone(), clk: st.Now}
	repos := appinventory.LedgerRepos{
		Ingredients: &IngredientRepo{v: tx},
		Products:    &ProductRepo{v: tx},
		Movements:   &MovementRepo{v: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	st.data = tx.data
	return nil
}

// Repositorios sobre el estado confirmado (fuera de transacción).

func (st *Store) Categories() *CategoryRepo     { return &CategoryRepo{v: storeView{st}} }
func (st *Store) Ingredients() *IngredientRepo { return &IngredientRepo{v: storeView{st}} }
func (st *Store) Products() *ProductRepo       { return &ProductRepo{v: storeView{st}} }
func (st *Store) Movements() *MovementRepo     { return &MovementRepo{v: storeView{st}} }
func (st *Store) Users() *UserRepo             { return &UserRepo{v: storeView{st}} }

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
