package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafe-backoffice/internal/application/auth"
	"github.com/jhoicas/cafe-backoffice/internal/application/inventory"
	"github.com/jhoicas/cafe-backoffice/internal/application/usecase"
	"github.com/jhoicas/cafe-backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	MovementUC   *inventory.MovementUseCase
	ReportUC     *inventory.ReportUseCase
	CategoryUC   *usecase.CategoryUseCase
	IngredientUC *usecase.IngredientUseCase
	ProductUC    *usecase.ProductUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	confirm := RequirePassword(deps.AuthUC)

	protected.Get("/auth/me", authHandler.Me)

	// Movements: cualquier usuario registra y consulta; borrar y reportar es de admin.
	movementHandler := NewMovementHandler(deps.MovementUC, deps.ReportUC)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Post("/report", adminOnly, movementHandler.Report)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Delete("/:id", adminOnly, confirm, movementHandler.Delete)

	// Categories (admin)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories", adminOnly)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", confirm, categoryHandler.Delete)

	// Ingredients: lectura para todos, escritura admin.
	ingredientHandler := NewIngredientHandler(deps.IngredientUC)
	ingredients := protected.Group("/ingredients")
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Get("/low-stock", ingredientHandler.LowStock)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Post("/", adminOnly, ingredientHandler.Create)
	ingredients.Put("/:id", adminOnly, ingredientHandler.Update)
	ingredients.Delete("/:id", adminOnly, confirm, ingredientHandler.Delete)

	// Products: lectura para todos, escritura admin.
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, confirm, productHandler.Delete)

	// Accounts (admin)
	accountHandler := NewAccountHandler(deps.AuthUC)
	accounts := protected.Group("/accounts", adminOnly)
	accounts.Get("/", accountHandler.List)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Put("/:id", accountHandler.Update)
	accounts.Delete("/:id", confirm, accountHandler.Delete)
}
