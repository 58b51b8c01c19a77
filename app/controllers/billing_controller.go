package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/lnking/lnking/app/repository"
	"github.com/lnking/lnking/internal/pkg/billing"
	"github.com/lnking/lnking/internal/pkg/env"
	"gorm.io/gorm"
)

var validate = validator.New()

type upgradeRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required"`
	Plan     string  `json:"plan" validate:"required"`
	Period   string  `json:"period" validate:"required,oneof=monthly yearly"`
	Amount   float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	BaseURL  string  `json:"base_url" validate:"omitempty,url"`
}

// HandleBillingUpgrade returns the details the frontend needs to open a
// Flutterwave checkout for a workspace. When an amount is supplied the
// checkout session is created server-side and the hosted payment link is
// included. The charge itself lands later as a webhook; this endpoint is
// plain request/response glue.
func HandleBillingUpgrade(c *fiber.Ctx) error {
	var req upgradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	workspace, err := repository.GetGlobalFactory().GetWorkspaceRepository().GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "workspace not found"})
		}
		log.Errorf("[Billing] workspace lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "workspace lookup failed"})
	}

	txRef, err := billing.EncodeTxRef(billing.TransactionReference{
		UserID:      req.UserID,
		WorkspaceID: workspace.ID,
		PlanName:    req.Plan,
		Interval:    req.Period,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "could not build transaction reference"})
	}

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = env.GetEnv("APP_DOMAIN", "") + "/" + workspace.Slug
	}

	checkoutURL := ""
	if req.Amount > 0 {
		currency := req.Currency
		if currency == "" {
			currency = "USD"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		session, err := billing.NewFlutterwaveClientFromEnv().InitiateCheckout(ctx, billing.CheckoutRequest{
			TxRef:       txRef,
			Amount:      req.Amount,
			Currency:    currency,
			RedirectURL: baseURL,
			Customer: billing.CheckoutCustomer{
				Email: req.Email,
				Name:  req.Name,
			},
		})
		if err != nil {
			log.Errorf("[Billing] checkout initiation failed for workspace %s: %v", workspace.ID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "checkout initiation failed"})
		}
		if session.Status != "success" || session.Data.Link == "" {
			msg := session.Message
			if msg == "" {
				msg = "checkout initiation failed"
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
		}
		checkoutURL = session.Data.Link
	}

	return c.JSON(fiber.Map{
		"user_id":                req.UserID,
		"email":                  req.Email,
		"name":                   req.Name,
		"plan":                   req.Plan,
		"period":                 req.Period,
		"tx_ref":                 txRef,
		"flutterwave_public_key": env.GetEnv("FLUTTERWAVE_PUBLIC_KEY", ""),
		"base_url":               baseURL,
		"checkout_url":           checkoutURL,
	})
}

// HandleBillingVerify proxies a transaction verification to the provider.
// Support tooling uses it to inspect a charge that never produced a webhook.
func HandleBillingVerify(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	tx, err := billing.NewFlutterwaveClientFromEnv().VerifyTransaction(ctx, c.Params("id"))
	if err != nil {
		log.Errorf("[Billing] transaction verification failed for %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "transaction verification failed"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  tx.Status,
		"data":    tx.Data,
	})
}

// HandleBillingCancel cancels the workspace's provider subscription and, on
// provider confirmation, downgrades the workspace to the free tier.
func HandleBillingCancel(c *fiber.Ctx) error {
	workspace, err := repository.GetGlobalFactory().GetWorkspaceRepository().GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "workspace not found"})
		}
		log.Errorf("[Billing] workspace lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "workspace lookup failed"})
	}
	if workspace.FlutterwaveSubscriptionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "no Flutterwave subscription ID"})
	}

	client := billing.NewFlutterwaveClientFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	result, err := client.CancelSubscription(ctx, workspace.FlutterwaveSubscriptionID)
	if err != nil {
		log.Errorf("[Billing] subscription cancel RPC failed for workspace %s: %v", workspace.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "error": "subscription cancellation failed"})
	}
	if result.Status != "success" {
		msg := result.Message
		if msg == "" {
			msg = "failed to cancel subscription"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
	}

	if err := billing.GetService().DowngradeWorkspace(workspace.ID); err != nil {
		log.Errorf("[Billing] downgrade after cancel failed for workspace %s: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "downgrade failed"})
	}

	return c.JSON(fiber.Map{"success": true})
}
