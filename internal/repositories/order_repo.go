package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetForUpdate loads an order with its items and holds a row lock on the
	// order until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Order, error)
	GetByPaymentEventID(ctx context.Context, eventID string) (*models.Order, error)
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
	SumTotalByStatus(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error)
	// Orders are never deleted; they are the audit trail of payments.
}
