package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/costeopro/costeo-api/internal/application/auth"
	"github.com/costeopro/costeo-api/internal/application/movements"
	"github.com/costeopro/costeo-api/internal/application/nfe"
	"github.com/costeopro/costeo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	MovementUC *movements.MovementUseCase
	ImportUC   *nfe.ImportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	paid := RequirePaidPlan(deps.AuthUC)

	// Products (protegido; import e historial de entradas requieren plan pago)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.MovementUC, deps.ImportUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Post("/import-nfe", paid, productHandler.ImportNFE)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/inbound", paid, productHandler.ListInbound)

	// Movements (protegido, solo plan pago)
	movGroup := protected.Group("/movements", paid)
	movementHandler := NewMovementHandler(deps.MovementUC)
	movGroup.Get("/", movementHandler.List)
	movGroup.Post("/inbound", movementHandler.RegisterInbound)
	movGroup.Post("/outbound", movementHandler.RegisterOutbound)
	movGroup.Delete("/inbound/:id", movementHandler.DeleteInbound)
	movGroup.Delete("/outbound/:id", movementHandler.DeleteOutbound)
}
