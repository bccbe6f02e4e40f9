package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-backoffice/internal/application/dto"
	"github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

// MovementHandler maneja las peticiones HTTP de movimientos y el reporte PDF (protegido).
type MovementHandler struct {
	uc     *inventory.MovementUseCase
	report *inventory.ReportUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase, report *inventory.ReportUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, report: report}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  type "in" suma al stock los ingredientes comprados;
//
//	type "out" descuenta los ingredientes de la receta de cada producto vendido.
//	Cantidades y precios en formato local ("1.234,56"). Todo el lote se valida junto:
//	si una línea falla no se guarda nada.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "type, ingredients | products, commentary"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	actor := GetUserName(c)

	var (
		mov *entity.Movement
		err error
	)
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case entity.MovementTypeIn:
		items := make([]inventory.InflowItem, 0, len(in.Ingredients))
		for _, it := range in.Ingredients {
			items = append(items, inventory.InflowItem{
				IngredientID: it.IngredientID,
				Quantity:     it.Quantity,
				Price:        it.Price,
				Unit:         entity.Unit(strings.ToLower(strings.TrimSpace(it.Unit))),
			})
		}
		mov, err = h.uc.CreateInflow(c.UserContext(), inventory.InflowInput{
			Items: items, Commentary: in.Commentary, ActorName: actor,
		})
	case entity.MovementTypeOut:
		items := make([]inventory.OutflowItem, 0, len(in.Products))
		for _, it := range in.Products {
			items = append(items, inventory.OutflowItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		mov, err = h.uc.CreateOutflow(c.UserContext(), inventory.OutflowInput{
			Items: items, Commentary: in.Commentary, ActorName: actor,
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: `type debe ser "in" u "out"`})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov, true))
}

// List godoc
// @Summary      Listar movimientos
// @Description  Más recientes primero, 10 por página. Con start_date y end_date filtra por
//
//	período (máximo 30 días, ambos extremos incluidos).
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Param        page        query  int     false  "Página"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	in := dto.ListMovementsRequest{
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1)},
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID detalle del movimiento con sus líneas.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina el movimiento y sus líneas sin revertir stock. La ruta exige RequirePassword.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte PDF de movimientos
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.ReportRequest  true  "start_date, end_date (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/report [post]
func (h *MovementHandler) Report(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	pdf, filename, err := h.report.Generate(c.UserContext(), in.StartDate, in.EndDate)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
