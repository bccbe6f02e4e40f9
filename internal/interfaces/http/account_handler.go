package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-backoffice/internal/application/auth"
	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
)

// AccountHandler gestión de cuentas (solo admin).
type AccountHandler struct {
	uc *auth.AuthUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *auth.AuthUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// List godoc
// @Summary      Listar cuentas
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        first_name  query  string  false  "Nombre (contiene)"
// @Param        email       query  string  false  "Email (contiene)"
// @Param        role        query  string  false  "employee | admin"
// @Param        page        query  int     false  "Página"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	in := dto.AccountFilterRequest{
		FirstName:   c.Query("first_name"),
		Email:       c.Query("email"),
		Role:        c.Query("role"),
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1)},
	}
	out, err := h.uc.ListAccounts(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cuenta
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateAccount(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetAccount(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateAccount(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina la cuenta; la ruta exige RequirePassword.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteAccount(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
