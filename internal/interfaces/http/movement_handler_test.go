package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-backoffice/internal/application/auth"
	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/application/usecase"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/cafe-backoffice/internal/interfaces/http"
)

type apiFixture struct {
	t     *testing.T
	app   *fiber.App
	admin string
	emp   string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()
	log := zerolog.Nop()
	authUC := auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log)
	require.NoError(t, authUC.EnsureAdmin(ctx, "admin@cafe.com", "admin1234", "Admin", "Café"))
	_, err := authUC.CreateAccount(ctx, dto.CreateAccountRequest{
		FirstName: "Emp", LastName: "Loyee", Email: "emp@cafe.com", Password: "emp12345", PasswordConfirm: "emp12345",
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		MovementUC:   inventory.NewMovementUseCase(st, st.Movements(), time.UTC, log),
		ReportUC:     inventory.NewReportUseCase(st.Movements(), pdf.NewMarotoReportGenerator("Café"), time.UTC, log),
		CategoryUC:   usecase.NewCategoryUseCase(st.Categories()),
		IngredientUC: usecase.NewIngredientUseCase(st.Ingredients(), st.Categories()),
		ProductUC:    usecase.NewProductUseCase(st.Products(), st.Ingredients()),
		JWTSecret:    testJWTSecret,
	})

	f := &apiFixture{t: t, app: app}
	f.admin = f.login("admin@cafe.com", "admin1234")
	f.emp = f.login("emp@cafe.com", "emp12345")
	return f
}

func (f *apiFixture) do(method, path, token string, body any) *http.Response {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	return resp
}

func (f *apiFixture) login(email, password string) string {
	f.t.Helper()
	resp := f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	require.Equal(f.t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(f.t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp := f.do(http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newAPI(t)
	resp := f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@cafe.com", Password: "nope"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovimientos_FlujoCompleto(t *testing.T) {
	f := newAPI(t)

	// empleado no puede crear ingredientes
	resp := f.do(http.MethodPost, "/api/ingredients", f.emp, dto.IngredientRequest{Name: "Café", Quantity: "1", Unit: "kg"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(http.MethodPost, "/api/ingredients", f.admin, dto.IngredientRequest{Name: "Café", Quantity: "1", Unit: "kg"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cafe := decode[dto.IngredientResponse](t, resp)

	resp = f.do(http.MethodPost, "/api/products", f.admin, dto.ProductRequest{
		Name: "Espresso", Price: "5,00",
		Recipe: []dto.RecipeItemRequest{{IngredientID: cafe.ID, Quantity: "0,018"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	espresso := decode[dto.ProductResponse](t, resp)

	// entrada de 500 g sobre un ingrediente en kg
	resp = f.do(http.MethodPost, "/api/movements", f.emp, dto.CreateMovementRequest{
		Type:        "in",
		Commentary:  "compra semanal",
		Ingredients: []dto.InflowItemRequest{{IngredientID: cafe.ID, Quantity: "500", Price: "20,00", Unit: "g"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	in := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "in", in.Type)
	assert.Equal(t, "Emp Loyee", in.User)
	assert.Equal(t, "20", in.Value.String())
	require.Len(t, in.Ingredients, 1)
	assert.Equal(t, "0.5", in.Ingredients[0].Quantity.String())

	// 100 espressos necesitan 1,8 kg y hay 1,5 kg
	resp = f.do(http.MethodPost, "/api/movements", f.emp, dto.CreateMovementRequest{
		Type:     "out",
		Products: []dto.OutflowItemRequest{{ProductID: espresso.ID, Quantity: "100"}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	resp = f.do(http.MethodPost, "/api/movements", f.emp, dto.CreateMovementRequest{
		Type:     "out",
		Products: []dto.OutflowItemRequest{{ProductID: espresso.ID, Quantity: "dos"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.NotEmpty(t, errBody.Errors)

	resp = f.do(http.MethodPost, "/api/movements", f.emp, dto.CreateMovementRequest{Type: "transfer"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(http.MethodPost, "/api/movements", f.emp, dto.CreateMovementRequest{
		Type:     "out",
		Products: []dto.OutflowItemRequest{{ProductID: "no-existe", Quantity: "1"}},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(http.MethodGet, "/api/movements", f.emp, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MovementListResponse](t, resp)
	assert.Equal(t, 1, list.Page.Total)

	resp = f.do(http.MethodGet, "/api/movements?start_date=2024-01-01&end_date=2024-03-01", f.emp, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(http.MethodGet, "/api/movements/"+in.ID, f.emp, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "compra semanal", detail.Commentary)

	// reporte PDF solo admin
	today := time.Now().UTC().Format("2006-01-02")
	report := dto.ReportRequest{StartDate: today, EndDate: today}
	resp = f.do(http.MethodPost, "/api/movements/report", f.emp, report)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(http.MethodPost, "/api/movements/report", f.admin, report)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "relatorio_"+today+"_"+today+".pdf")

	// borrar exige contraseña del admin
	resp = f.do(http.MethodDelete, "/api/movements/"+in.ID, f.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(http.MethodDelete, "/api/movements/"+in.ID, f.admin, dto.ConfirmPasswordRequest{Password: "otra"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(http.MethodDelete, "/api/movements/"+in.ID, f.admin, dto.ConfirmPasswordRequest{Password: "admin1234"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(http.MethodGet, "/api/movements/"+in.ID, f.emp, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// el stock no se revierte al borrar el movimiento
	resp = f.do(http.MethodGet, "/api/ingredients/"+cafe.ID, f.emp, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.IngredientResponse](t, resp)
	assert.Equal(t, "1.5", got.Quantity.String())
}

func TestCuentas_SoloAdmin(t *testing.T) {
	f := newAPI(t)

	resp := f.do(http.MethodGet, "/api/accounts", f.emp, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(http.MethodPost, "/api/accounts", f.admin, dto.CreateAccountRequest{
		FirstName: "Nuevo", Email: "emp@cafe.com", Password: "corta", PasswordConfirm: "otra",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Len(t, errBody.Errors, 3)

	resp = f.do(http.MethodGet, "/api/accounts?role=employee", f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.UserListResponse](t, resp)
	assert.Equal(t, 1, list.Page.Total)
}
