package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetByUserID loads the user's cart with items and their products.
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	// LockByUserID is GetByUserID holding a row lock on the cart.
	LockByUserID(ctx context.Context, userID string) (*models.Cart, error)
	GetByID(ctx context.Context, id string) (*models.Cart, error)
	// GetOrCreate returns the user's cart, creating an empty one if needed.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID, size string) (*models.CartItem, error)
	GetItem(ctx context.Context, id string) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, id string) error
	ClearItems(ctx context.Context, cartID string) error
	DeleteItemsByProduct(ctx context.Context, productID string) error
	// CountItems sums item quantities in the user's cart.
	CountItems(ctx context.Context, userID string) (int64, error)
}
