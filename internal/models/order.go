package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING" // payment confirmed
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var nextOrderStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// ParseOrderStatus maps a case-insensitive name onto a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next directly follows s. CANCELLED is
// reachable from every non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return nextOrderStatus[s] == next
}

// OrderItem is an immutable snapshot of a cart line at payment time.
type OrderItem struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string          `json:"orderId" gorm:"type:varchar(36);index;not null"`
	ProductID   string          `json:"productId" gorm:"type:varchar(36);index;not null"`
	ProductName string          `json:"productName" gorm:"type:varchar(200)"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null"` // Price at the time of order
	Size        string          `json:"size" gorm:"type:varchar(20)"`
	Color       string          `json:"color" gorm:"type:varchar(30)"`
}

// Order represents a customer order.
type Order struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string          `json:"userId" gorm:"type:varchar(36);index;not null"`
	Items            []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total            decimal.Decimal `json:"total" gorm:"type:numeric(14,2);not null"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);index;not null"`
	Address          string          `json:"address" gorm:"type:text"`
	CustomerName     string          `json:"customerName" gorm:"type:varchar(100)"`
	CustomerPhone    string          `json:"customerPhone" gorm:"type:varchar(30)"`
	PaymentSessionID string          `json:"paymentSessionId,omitempty" gorm:"type:varchar(255);index"`
	PaymentEventID   *string         `json:"-" gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ShippingAddress is collected at checkout and carried through the payment session.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Phone      string `json:"phone" validate:"required,max=30"`
}

// Formatted renders the address the way it is stored on orders.
func (a ShippingAddress) Formatted() string {
	return fmt.Sprintf("%s, %s %s", a.Address, a.City, a.PostalCode)
}
