package services

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderEventPublisher delivers order lifecycle events to other systems.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event interface{}) error
}

// OrderCreatedEvent is published once an order has been materialized.
type OrderCreatedEvent struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Total   string `json:"total"`
	Items   int    `json:"items"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher OrderEventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
	}
}

// ListOrdersForUser returns the caller's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// GetOrderForUser returns one of the caller's orders. Orders of other users
// are reported as not found.
func (s *OrderService) GetOrderForUser(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	return order, nil
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().GetAll(ctx)
}

// UpdateOrderStatus moves an order to status if the transition is allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var updated *models.Order
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		order, err := tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}
		if err := tx.Orders().UpdateStatus(ctx, id, next); err != nil {
			return fmt.Errorf("failed to update order status for order %s: %w", id, err)
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Order %s moved to %s", id, next)
	return updated, nil
}

// publishCreated emits order.created. Failures are logged, never returned:
// the order is already committed.
func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := OrderCreatedEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total.String(),
		Items:   len(order.Items),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		return
	}
	log.Printf("Published order created event for order %s", order.ID)
}
