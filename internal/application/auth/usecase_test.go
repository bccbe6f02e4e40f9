package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-backoffice/internal/application/auth"
	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/domain"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
	"github.com/jhoicas/cafe-backoffice/internal/infrastructure/memory"
	"github.com/jhoicas/cafe-backoffice/pkg/jwt"
)

const secret = "test-secret"

func newUseCase() *auth.AuthUseCase {
	st := memory.NewStore()
	return auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, zerolog.Nop())
}

func TestCreateAccount_AcumulaErrores(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	_, err := uc.CreateAccount(ctx, dto.CreateAccountRequest{
		FirstName: "Ana", Email: "ana@cafe.com", Password: "12345678", PasswordConfirm: "12345678",
	})
	require.NoError(t, err)

	_, err = uc.CreateAccount(ctx, dto.CreateAccountRequest{
		FirstName: "Otra", Email: "ANA@cafe.com", Password: "123", PasswordConfirm: "456", Role: "root",
	})
	vErrs, ok := domain.AsValidation(err)
	require.True(t, ok)
	// email repetido, contraseñas distintas, contraseña corta, rol inválido
	assert.Len(t, vErrs, 4)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateAccount_RolPorDefecto(t *testing.T) {
	uc := newUseCase()
	u, err := uc.CreateAccount(context.Background(), dto.CreateAccountRequest{
		FirstName: "Bruno", LastName: "Lima", Email: " Bruno@Cafe.com ", Password: "segredo123", PasswordConfirm: "segredo123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, u.Role)
	assert.Equal(t, "bruno@cafe.com", u.Email)
}

func TestLogin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	created, err := uc.CreateAccount(ctx, dto.CreateAccountRequest{
		FirstName: "Carla", LastName: "Souza", Email: "carla@cafe.com",
		Password: "segredo123", PasswordConfirm: "segredo123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "carla@cafe.com", Password: "segredo123"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id.UserID)
	assert.Equal(t, "Carla Souza", id.Name)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "carla@cafe.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@cafe.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.NoError(t, uc.VerifyPassword(ctx, created.ID, "segredo123"))
	assert.ErrorIs(t, uc.VerifyPassword(ctx, created.ID, "otra"), domain.ErrUnauthorized)
}

func TestUpdateAccount(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	a, err := uc.CreateAccount(ctx, dto.CreateAccountRequest{FirstName: "A", Email: "a@cafe.com", Password: "12345678", PasswordConfirm: "12345678"})
	require.NoError(t, err)
	_, err = uc.CreateAccount(ctx, dto.CreateAccountRequest{FirstName: "B", Email: "b@cafe.com", Password: "12345678", PasswordConfirm: "12345678"})
	require.NoError(t, err)

	taken := "b@cafe.com"
	_, err = uc.UpdateAccount(ctx, a.ID, dto.UpdateAccountRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	name := "Alice"
	admin := entity.RoleAdmin
	upd, err := uc.UpdateAccount(ctx, a.ID, dto.UpdateAccountRequest{
		FirstName: &name, Role: &admin, Password: "nuevaclave", PasswordConfirm: "nuevaclave",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", upd.FirstName)
	assert.Equal(t, entity.RoleAdmin, upd.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@cafe.com", Password: "nuevaclave"})
	assert.NoError(t, err)

	_, err = uc.UpdateAccount(ctx, "no-existe", dto.UpdateAccountRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListYDeleteAccount(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@cafe.com", "admin1234", "Admin", ""))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@cafe.com", "admin1234", "Admin", ""))
	emp, err := uc.CreateAccount(ctx, dto.CreateAccountRequest{FirstName: "Emp", Email: "emp@cafe.com", Password: "12345678", PasswordConfirm: "12345678"})
	require.NoError(t, err)

	list, err := uc.ListAccounts(ctx, dto.AccountFilterRequest{Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	admin := list.Items[0]

	assert.ErrorIs(t, uc.DeleteAccount(ctx, admin.ID, admin.ID), domain.ErrForbidden)
	require.NoError(t, uc.DeleteAccount(ctx, admin.ID, emp.ID))
	_, err = uc.GetAccount(ctx, emp.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	list, err = uc.ListAccounts(ctx, dto.AccountFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}
