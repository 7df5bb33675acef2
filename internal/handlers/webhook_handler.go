package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookHandler receives payment processor notifications.
type WebhookHandler struct {
	service *services.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// RegisterRoutes registers the webhook endpoint. It is authenticated by
// signature, not by session.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/stripe", h.HandleStripe)
}

// HandleStripe verifies and processes a Stripe event. 4xx answers tell the
// processor not to retry; 5xx answers make it redeliver.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	// Body() is reused by fasthttp after the handler returns, so hand the service a copy.
	payload := append([]byte(nil), c.Body()...)
	result, err := h.service.HandleStripeEvent(c.UserContext(), payload, c.Get("Stripe-Signature"))
	if err != nil {
		return respondError(c, "Webhook processing failed", err)
	}
	return c.JSON(result)
}
