package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/memory"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	uc    *appinventory.MovementUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	return &fixture{
		ctx:   context.Background(),
		store: st,
		uc:    appinventory.NewMovementUseCase(st, st.Movements(), time.UTC, zerolog.Nop()),
	}
}

func (f *fixture) ingredient(t *testing.T, name, qty string, unit entity.Unit) *entity.Ingredient {
	t.Helper()
	ing := &entity.Ingredient{Name: name, Quantity: decimal.RequireFromString(qty), Unit: unit}
	require.NoError(t, f.store.Ingredients().Create(f.ctx, ing))
	return ing
}

func (f *fixture) product(t *testing.T, name, price string, recipe ...entity.RecipeItem) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), Recipe: recipe}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	return p
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	ing, err := f.store.Ingredients().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ing)
	return ing.Quantity
}

func (f *fixture) movements(t *testing.T) int {
	t.Helper()
	n, err := f.store.Movements().Count(f.ctx)
	require.NoError(t, err)
	return n
}

func TestCreateInflow_ConvierteGramosAKilos(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "10", entity.UnitKilogram)

	mov, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items:      []appinventory.InflowItem{{IngredientID: cafe.ID, Quantity: "500", Price: "32,90", Unit: entity.UnitGram}},
		Commentary: "compra semanal",
		ActorName:  "Ana Souza",
	})
	require.NoError(t, err)

	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 1, f.movements(t))

	saved, err := f.store.Movements().GetByID(f.ctx, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeIn, saved.Type)
	assert.Equal(t, "Ana Souza", saved.User)
	assert.Equal(t, "compra semanal", saved.Commentary)
	assert.True(t, saved.Value.Equal(decimal.RequireFromString("32.90")))
	require.Len(t, saved.Inflows, 1)
	assert.Equal(t, "Café", saved.Inflows[0].Name)
	assert.True(t, saved.Inflows[0].Quantity.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, entity.UnitKilogram, saved.Inflows[0].Unit)
	assert.Empty(t, saved.Outflows)
}

func TestCreateInflow_AcumulaErroresSinEscribir(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)
	leite := f.ingredient(t, "Leite", "4", entity.UnitUnit)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{
			{IngredientID: cafe.ID, Quantity: "2", Price: "10", Unit: entity.UnitKilogram},
			{IngredientID: leite.ID, Quantity: "abc", Price: "0", Unit: entity.UnitUnit},
		},
		ActorName: "Ana",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.ErrorIs(t, err, domain.ErrNonPositiveValue)

	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, vErrs, 2)

	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.NewFromInt(1)), "la línea válida no debe aplicarse")
	assert.Zero(t, f.movements(t))
}

func TestCreateInflow_ConversionNoSoportada(t *testing.T) {
	f := newFixture(t)
	ovos := f.ingredient(t, "Ovos", "12", entity.UnitUnit)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{{IngredientID: ovos.ID, Quantity: "100", Price: "5", Unit: entity.UnitGram}},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)
	assert.True(t, f.stock(t, ovos.ID).Equal(decimal.NewFromInt(12)))
}

func TestCreateInflow_IngredienteInexistenteAborta(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{
			{IngredientID: cafe.ID, Quantity: "1", Price: "1", Unit: entity.UnitKilogram},
			{IngredientID: "no-existe", Quantity: "1", Price: "1", Unit: entity.UnitKilogram},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, isValidation := domain.AsValidation(err)
	assert.False(t, isValidation)
	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.NewFromInt(1)))
	assert.Zero(t, f.movements(t))
}

func TestCreateInflow_MismoIngredienteDosVeces(t *testing.T) {
	f := newFixture(t)
	acucar := f.ingredient(t, "Açúcar", "1", entity.UnitKilogram)

	mov, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{
			{IngredientID: acucar.ID, Quantity: "1", Price: "4,50", Unit: entity.UnitKilogram},
			{IngredientID: acucar.ID, Quantity: "250", Price: "1,25", Unit: entity.UnitGram},
		},
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, acucar.ID).Equal(decimal.RequireFromString("2.25")))
	assert.True(t, mov.Value.Equal(decimal.RequireFromString("5.75")))
	assert.Len(t, mov.Inflows, 2)
}

func TestCreateInflow_RedondeaATresDecimales(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "10", entity.UnitKilogram)

	mov, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{
			{IngredientID: cafe.ID, Quantity: "1,5", Price: "1,00", Unit: entity.UnitGram},
			{IngredientID: cafe.ID, Quantity: "1,5", Price: "1,01", Unit: entity.UnitGram},
		},
	})
	require.NoError(t, err)

	stock := f.stock(t, cafe.ID)
	assert.True(t, stock.Equal(stock.Round(3)), "stock %s", stock)
	assert.True(t, stock.Equal(decimal.RequireFromString("10.004")), "stock %s", stock)

	sum := decimal.Zero
	for _, l := range mov.Inflows {
		assert.True(t, l.Quantity.Equal(l.Quantity.Round(3)), "cantidad %s", l.Quantity)
		assert.True(t, l.Price.Equal(l.Price.Round(2)), "precio %s", l.Price)
		sum = sum.Add(l.Price)
	}
	assert.True(t, mov.Value.Equal(sum))
	assert.True(t, mov.Value.Equal(decimal.RequireFromString("2.01")))
}

func TestCreateInflow_RechazaEscalaInvalida(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "10", entity.UnitKilogram)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{
			{IngredientID: cafe.ID, Quantity: "1", Price: "1,005", Unit: entity.UnitKilogram},
			{IngredientID: cafe.ID, Quantity: "0,1", Price: "1", Unit: entity.UnitGram},
		},
	})
	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErrs, 2)
	assert.ErrorIs(t, vErrs[0].Kind, domain.ErrInvalidFormat)
	assert.ErrorIs(t, vErrs[1].Kind, domain.ErrNonPositiveValue)

	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.NewFromInt(10)))
	assert.Zero(t, f.movements(t))
}

func TestCreateInflow_StockFueraDeRango(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "999999999", entity.UnitKilogram)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{{IngredientID: cafe.ID, Quantity: "1", Price: "1", Unit: entity.UnitKilogram}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Zero(t, f.movements(t))
}

func TestCreateMovement_SeleccionVacia(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)

	_, err = f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestCreateOutflow_DescuentaReceta(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)
	leite := f.ingredient(t, "Leite", "10", entity.UnitUnit)
	capuccino := f.product(t, "Capuccino", "12,50",
		entity.RecipeItem{IngredientID: cafe.ID, Quantity: decimal.RequireFromString("0.018")},
		entity.RecipeItem{IngredientID: leite.ID, Quantity: decimal.RequireFromString("0.2")},
	)

	mov, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items:     []appinventory.OutflowItem{{ProductID: capuccino.ID, Quantity: "3"}},
		ActorName: "Bruno",
	})
	require.NoError(t, err)

	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.RequireFromString("0.946")))
	assert.True(t, f.stock(t, leite.ID).Equal(decimal.RequireFromString("9.4")))
	assert.Equal(t, entity.MovementTypeOut, mov.Type)
	assert.True(t, mov.Value.Equal(decimal.RequireFromString("37.50")))
	require.Len(t, mov.Outflows, 1)
	assert.Equal(t, "Capuccino", mov.Outflows[0].Name)
	assert.Equal(t, int64(3), mov.Outflows[0].Quantity)
	assert.True(t, mov.Outflows[0].Price.Equal(decimal.RequireFromString("37.5")))
}

func TestCreateOutflow_StockInsuficienteNoEscribe(t *testing.T) {
	f := newFixture(t)
	pao := f.ingredient(t, "Pão", "3", entity.UnitUnit)
	misto := f.product(t, "Misto quente", "9", entity.RecipeItem{IngredientID: pao.ID, Quantity: decimal.NewFromInt(2)})

	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{{ProductID: misto.ID, Quantity: "2"}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, vErrs.Only(domain.ErrInsufficientStock))
	assert.Contains(t, vErrs.Messages()[0], "Pão")

	assert.True(t, f.stock(t, pao.ID).Equal(decimal.NewFromInt(3)))
	assert.Zero(t, f.movements(t))
}

func TestCreateOutflow_LoteAtomico(t *testing.T) {
	f := newFixture(t)
	pao := f.ingredient(t, "Pão", "1", entity.UnitUnit)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)
	a := f.product(t, "Sanduíche", "15", entity.RecipeItem{IngredientID: pao.ID, Quantity: decimal.NewFromInt(2)})
	b := f.product(t, "Espresso", "6", entity.RecipeItem{IngredientID: cafe.ID, Quantity: decimal.RequireFromString("0.01")})

	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{
			{ProductID: a.ID, Quantity: "1"},
			{ProductID: b.ID, Quantity: "2"},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.NewFromInt(1)), "B no debe descontar si A falla")
	assert.True(t, f.stock(t, pao.ID).Equal(decimal.NewFromInt(1)))
	assert.Zero(t, f.movements(t))
}

func TestCreateOutflow_ReportaTodosLosErrores(t *testing.T) {
	f := newFixture(t)
	pao := f.ingredient(t, "Pão", "1", entity.UnitUnit)
	a := f.product(t, "Sanduíche", "15", entity.RecipeItem{IngredientID: pao.ID, Quantity: decimal.NewFromInt(2)})
	b := f.product(t, "Torrada", "5", entity.RecipeItem{IngredientID: pao.ID, Quantity: decimal.NewFromInt(1)})

	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{
			{ProductID: b.ID, Quantity: "x"},
			{ProductID: a.ID, Quantity: "1"},
			{ProductID: b.ID, Quantity: "1,5"},
		},
	})
	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Len(t, vErrs, 3)
	assert.ErrorIs(t, vErrs[0].Kind, domain.ErrInvalidFormat)
	assert.ErrorIs(t, vErrs[1].Kind, domain.ErrInsufficientStock)
	assert.ErrorIs(t, vErrs[2].Kind, domain.ErrInvalidFormat)
}

func TestCreateOutflow_ConsumoCompartidoEntreProductos(t *testing.T) {
	f := newFixture(t)
	leite := f.ingredient(t, "Leite", "1", entity.UnitUnit)
	latte := f.product(t, "Latte", "10", entity.RecipeItem{IngredientID: leite.ID, Quantity: decimal.RequireFromString("0.6")})
	chocolate := f.product(t, "Chocolate quente", "11", entity.RecipeItem{IngredientID: leite.ID, Quantity: decimal.RequireFromString("0.6")})

	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{
			{ProductID: latte.ID, Quantity: "1"},
			{ProductID: chocolate.ID, Quantity: "1"},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, leite.ID).Equal(decimal.NewFromInt(1)))
}

func TestCreateOutflow_CantidadFueraDeRango(t *testing.T) {
	f := newFixture(t)
	agua := f.product(t, "Agua", "3")
	pao := f.ingredient(t, "Pão", "5", entity.UnitUnit)
	misto := f.product(t, "Misto quente", "9", entity.RecipeItem{IngredientID: pao.ID, Quantity: decimal.NewFromInt(1)})

	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{
			{ProductID: misto.ID, Quantity: "1"},
			{ProductID: agua.ID, Quantity: "99999999999999999999"},
		},
	})
	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, vErrs.Only(domain.ErrInvalidFormat))
	assert.Len(t, vErrs, 1)

	assert.True(t, f.stock(t, pao.ID).Equal(decimal.NewFromInt(5)))
	assert.Zero(t, f.movements(t))
}

func TestCreateOutflow_SinReceta(t *testing.T) {
	f := newFixture(t)
	agua := f.product(t, "Agua", "3.50")

	mov, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{{ProductID: agua.ID, Quantity: "4"}},
	})
	require.NoError(t, err)
	require.Len(t, mov.Outflows, 1)
	assert.Equal(t, int64(4), mov.Outflows[0].Quantity)
	assert.True(t, mov.Value.Equal(decimal.NewFromInt(14)))
}

func TestCreateOutflow_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateOutflow(f.ctx, appinventory.OutflowInput{
		Items: []appinventory.OutflowItem{{ProductID: "nada", Quantity: "1"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EliminaLineasSinTocarStock(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)
	leite := f.ingredient(t, "Leite", "2", entity.UnitUnit)

	mov, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
		Items: []appinventory.InflowItem{{IngredientID: cafe.ID, Quantity: "1", Price: "40", Unit: entity.UnitKilogram}},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(f.ctx, mov.ID))

	_, err = f.uc.GetByID(f.ctx, mov.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.movements(t))
	assert.True(t, f.stock(t, cafe.ID).Equal(decimal.NewFromInt(2)))
	assert.True(t, f.stock(t, leite.ID).Equal(decimal.NewFromInt(2)))

	assert.ErrorIs(t, f.uc.Delete(f.ctx, mov.ID), domain.ErrNotFound)
}

func TestList_PaginaYFiltraPorPeriodo(t *testing.T) {
	f := newFixture(t)
	cafe := f.ingredient(t, "Café", "1", entity.UnitKilogram)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		day := base.AddDate(0, 0, i)
		f.store.Now = func() time.Time { return day }
		_, err := f.uc.CreateInflow(f.ctx, appinventory.InflowInput{
			Items: []appinventory.InflowItem{{IngredientID: cafe.ID, Quantity: "1", Price: "1", Unit: entity.UnitKilogram}},
		})
		require.NoError(t, err)
	}

	first, err := f.uc.List(f.ctx, dto.ListMovementsRequest{})
	require.NoError(t, err)
	assert.Len(t, first.Items, dto.PageSize)
	assert.Equal(t, 12, first.Page.Total)
	assert.Equal(t, 2, first.Page.TotalPages)
	assert.Equal(t, base.AddDate(0, 0, 11), first.Items[0].Date)

	second, err := f.uc.List(f.ctx, dto.ListMovementsRequest{PageRequest: dto.PageRequest{Page: 2}})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)

	filtered, err := f.uc.List(f.ctx, dto.ListMovementsRequest{StartDate: "2024-03-02", EndDate: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, 3, filtered.Page.Total)

	_, err = f.uc.List(f.ctx, dto.ListMovementsRequest{StartDate: "2024-03-04", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrNegativePeriod)
}
