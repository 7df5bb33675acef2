package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler starts hosted payment sessions.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers POST /checkout behind auth.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/checkout", auth, h.HandleCheckout)
}

// CheckoutRequest is the body of POST /checkout. Items and prices come from
// the server-side cart.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" validate:"required"`
}

// HandleCheckout creates a checkout session for the caller's cart.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	session, err := h.service.CreateSession(c.UserContext(), middleware.UserID(c), req.ShippingAddress)
	if err != nil {
		return respondError(c, "Could not start checkout", err)
	}
	return c.JSON(session)
}
