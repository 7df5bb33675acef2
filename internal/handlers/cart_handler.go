package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the caller's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	r := router.Group("/cart", auth)
	r.Get("/", h.HandleGetCart)
	r.Post("/", h.HandleAddItem)
	r.Get("/count", h.HandleCount)
	r.Patch("/items/:itemId", h.HandleUpdateItem)
	r.Delete("/items/:itemId", h.HandleRemoveItem)
}

// AddToCartRequest is the body of POST /cart.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required,max=20"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Color     string `json:"color" validate:"max=30"`
}

// UpdateCartItemRequest is the body of PATCH /cart/items/:itemId.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// HandleGetCart returns the cart with products and subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	view, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(view)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddToCartRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), services.AddToCartInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
		Color:     req.Color,
	})
	if err != nil {
		return respondError(c, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleCount returns the number of units in the cart.
func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.service.Count(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not count cart items", err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// HandleUpdateItem changes the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	item, err := h.service.UpdateItemQuantity(c.UserContext(), middleware.UserID(c), c.Params("itemId"), req.Quantity)
	if err != nil {
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(item)
}

// HandleRemoveItem deletes a cart line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("itemId")); err != nil {
		return respondError(c, "Could not remove cart item", err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}
