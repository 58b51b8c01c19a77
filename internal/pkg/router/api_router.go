package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lnking/lnking/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Provider webhooks sit outside the rate-limited group: redelivery
	// storms from the provider must hit reconciliation, not a limiter.
	app.Post("/api/flutterwave/webhook", controllers.HandleFlutterwaveWebhook)

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	v1.Get("/workspaces/:slug", controllers.HandleWorkspaceBySlug)
	v1.Get("/workspaces/:id/customers", controllers.HandleWorkspaceCustomers)
	v1.Post("/workspaces/:id/billing/upgrade", controllers.HandleBillingUpgrade)
	v1.Post("/workspaces/:id/billing/cancel", controllers.HandleBillingCancel)
	v1.Get("/billing/transactions/:id", controllers.HandleBillingVerify)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
