package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/lnking/lnking/internal/pkg/billing"
	"github.com/lnking/lnking/internal/pkg/env"
)

// HandleFlutterwaveWebhook receives payment provider notifications. The
// provider retries anything that is not a 2xx, so every permanently
// unactionable condition still acknowledges success; only signature failures
// and infrastructure errors return non-success.
func HandleFlutterwaveWebhook(c *fiber.Ctx) error {
	signature := c.Get("verif-hash")
	secret := env.GetEnv("FLUTTERWAVE_WEBHOOK_HASH", "")
	if !billing.VerifyWebhookSignature(signature, secret) {
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid webhook signature")
	}

	event, err := billing.ParseNotificationEvent(c.BodyRaw())
	if err != nil {
		// An unparseable body will never parse on redelivery either.
		log.Errorf("[Webhook] discarding unparseable payload: %v", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := billing.GetService().Reconcile(ctx, event); err != nil {
		log.Errorf("[Webhook] reconciliation of %s failed: %v", event.Kind, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
