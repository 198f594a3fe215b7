package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	appdelivery "github.com/jhoicas/almacen-api/internal/application/delivery"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/notification"
	"github.com/jhoicas/almacen-api/internal/application/staff"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	StaffUC        *staff.StaffUseCase
	ProductUC      *usecase.ProductUseCase
	LedgerUC       *inventory.LedgerUseCase
	DeliveryUC     *appdelivery.DeliveryUseCase
	NotificationUC *notification.NotificationUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.StaffUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/invites/accept", authHandler.AcceptInvite)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movements (ledger)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)

	// Staff e invitaciones (solo admin)
	staffGroup := protected.Group("/staff", RequireRole(entity.RoleAdmin))
	staffHandler := NewStaffHandler(deps.StaffUC)
	staffGroup.Get("/", staffHandler.List)
	staffGroup.Put("/:id", staffHandler.Update)
	staffGroup.Post("/invites", staffHandler.CreateInvite)
	staffGroup.Get("/invites", staffHandler.ListInvites)

	// Deliveries
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Put("/:id/status", deliveryHandler.UpdateStatus)
	deliveries.Get("/:id/note.pdf", deliveryHandler.DownloadNote)

	// Notifications
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
}
