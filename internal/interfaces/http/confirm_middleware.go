package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
)

// passwordVerifier contrato mínimo para confirmar la contraseña del usuario autenticado.
// Lo implementa *auth.AuthUseCase.
type passwordVerifier interface {
	VerifyPassword(ctx context.Context, userID, password string) error
}

// RequirePassword exige que el cuerpo traiga {"password": "..."} con la contraseña del usuario
// autenticado. Se usa en las eliminaciones. Va después de AuthMiddleware.
//
//   - 400 si falta la contraseña.
//   - 401 si no coincide.
func RequirePassword(verifier passwordVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.ConfirmPasswordRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return badBody(c)
			}
		}
		if in.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "PASSWORD_REQUIRED", Message: "confirme la operación con su contraseña",
			})
		}
		if err := verifier.VerifyPassword(c.UserContext(), GetUserID(c), in.Password); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "WRONG_PASSWORD", Message: "contraseña incorrecta",
			})
		}
		return c.Next()
	}
}
