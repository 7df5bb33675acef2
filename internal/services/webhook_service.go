package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/payment"

	"github.com/shopspring/decimal"
)

// Fallbacks for checkout metadata the processor did not return.
const (
	fallbackAddress = "Address not provided"
	fallbackName    = "Name not provided"
	fallbackPhone   = "Phone not provided"
)

// WebhookResult is the acknowledgement sent back to the payment processor.
type WebhookResult struct {
	Received bool   `json:"received"`
	OrderID  string `json:"orderId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// WebhookService turns completed checkouts into orders.
type WebhookService struct {
	store   repositories.Store
	gateway payment.Gateway
	orders  *OrderService
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(store repositories.Store, gateway payment.Gateway, orders *OrderService) *WebhookService {
	return &WebhookService{
		store:   store,
		gateway: gateway,
		orders:  orders,
	}
}

// HandleStripeEvent verifies and dispatches a raw webhook delivery. Nothing
// is read or written before the signature checks out.
func (s *WebhookService) HandleStripeEvent(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrMalformedEvent) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	if event.Type != payment.EventCheckoutCompleted || event.Checkout == nil {
		return &WebhookResult{Received: true, Message: fmt.Sprintf("Event %s ignored", event.Type)}, nil
	}
	return s.MaterializeOrder(ctx, event.ID, *event.Checkout)
}

// MaterializeOrder converts the user's cart into an order and empties the
// cart in a single transaction. Redelivery of eventID is a no-op.
func (s *WebhookService) MaterializeOrder(ctx context.Context, eventID string, checkout payment.CompletedCheckout) (*WebhookResult, error) {
	userID := strings.TrimSpace(checkout.ClientReferenceID)
	if userID == "" {
		return nil, ErrMissingUser
	}

	result := &WebhookResult{Received: true}
	var created *models.Order
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if eventID != "" {
			existing, err := tx.Orders().GetByPaymentEventID(ctx, eventID)
			if err == nil {
				result.OrderID = existing.ID
				result.Message = "Event already processed"
				return nil
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
		}

		cart, err := tx.Carts().LockByUserID(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			result.Message = "No cart found"
			return nil
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			result.Message = "Cart is empty"
			return nil
		}

		order, err := buildOrder(userID, eventID, checkout, cart)
		if err != nil {
			return err
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		created = order
		return nil
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		// a concurrent delivery of the same event committed first
		return &WebhookResult{Received: true, Message: "Event already processed"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to materialize order for user %s: %w", userID, err)
	}
	if created == nil {
		log.Printf("Webhook event %s for user %s: %s", eventID, userID, result.Message)
		return result, nil
	}

	expected := created.Total.Shift(2).IntPart()
	if checkout.AmountTotal != 0 && checkout.AmountTotal != expected {
		log.Printf("Warning: order %s total %d differs from charged amount %d", created.ID, expected, checkout.AmountTotal)
	}
	log.Printf("Order %s materialized from event %s", created.ID, eventID)
	s.orders.publishCreated(ctx, created)

	result.OrderID = created.ID
	return result, nil
}

func buildOrder(userID, eventID string, checkout payment.CompletedCheckout, cart *models.Cart) (*models.Order, error) {
	order := &models.Order{
		UserID:           userID,
		Status:           models.OrderStatusProcessing,
		Address:          metadataOr(checkout.Metadata, "address", fallbackAddress),
		CustomerName:     metadataOr(checkout.Metadata, "fullName", fallbackName),
		CustomerPhone:    metadataOr(checkout.Metadata, "phone", fallbackPhone),
		PaymentSessionID: checkout.SessionID,
	}
	if eventID != "" {
		order.PaymentEventID = &eventID
	}

	total := decimal.Zero
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("cart item %s references missing product %s", item.ID, item.ProductID)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
			Size:        item.Size,
			Color:       item.Color,
		})
		total = total.Add(item.LineTotal())
	}
	order.Total = total
	return order, nil
}

func metadataOr(metadata map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(metadata[key]); v != "" {
		return v
	}
	return fallback
}
