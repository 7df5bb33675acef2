package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items")
}

// GetAll retrieves every order, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withItems(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, wrapError(err, "get all orders")
	}
	return orders, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, wrapError(err, "list orders for user")
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, fmt.Sprintf("get order by ID %s", id))
	}
	return &order, nil
}

// GetForUpdate implements OrderRepository.
func (r *GORMOrderRepository) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.withItems(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("lock order %s", id))
	}
	return &order, nil
}

// GetByPaymentEventID finds the order materialized from a payment event.
func (r *GORMOrderRepository) GetByPaymentEventID(ctx context.Context, eventID string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, "payment_event_id = ?", eventID).Error; err != nil {
		return nil, wrapError(err, "get order by payment event")
	}
	return &order, nil
}

// Create implements OrderRepository.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return wrapError(err, "create order")
	}
	return nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return wrapError(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, wrapError(err, "count orders")
	}
	return count, nil
}

// Recent returns the latest orders, items included.
func (r *GORMOrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withItems(ctx).Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, wrapError(err, "get recent orders")
	}
	return orders, nil
}

// SumTotalByStatus adds up order totals in the given status.
func (r *GORMOrderRepository) SumTotalByStatus(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status = ?", status).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, wrapError(err, "sum order totals")
	}
	return total, nil
}
