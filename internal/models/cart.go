package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user staging area for purchase intent. A user has at most one.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is one product+size line in a cart.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cartId" gorm:"type:varchar(36);index;not null"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);index;not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Size      string    `json:"size" gorm:"type:varchar(20);not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Color     string    `json:"color" gorm:"type:varchar(30)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LineTotal is the item's quantity at the product's current price.
// Zero when the product was not loaded.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartView is a cart together with its computed totals.
type CartView struct {
	Cart       *Cart           `json:"cart"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int             `json:"totalItems"`
}
