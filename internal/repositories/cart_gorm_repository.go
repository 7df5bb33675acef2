package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product")
}

// GetByUserID implements CartRepository.
func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.withItems(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, wrapError(err, fmt.Sprintf("get cart for user %s", userID))
	}
	return &cart, nil
}

// LockByUserID implements CartRepository.
func (r *GORMCartRepository) LockByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.withItems(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("lock cart for user %s", userID))
	}
	return &cart, nil
}

// GetByID retrieves a cart without its items.
func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, fmt.Sprintf("get cart %s", id))
	}
	return &cart, nil
}

// GetOrCreate implements CartRepository. A concurrent create for the same
// user loses on the unique index and re-reads the winner's row.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	cart = &models.Cart{ID: uuid.New().String(), UserID: userID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByUserID(ctx, userID)
		}
		return nil, wrapError(err, "create cart")
	}
	return cart, nil
}

// FindItem looks up the line for a product and size in a cart.
func (r *GORMCartRepository) FindItem(ctx context.Context, cartID, productID, size string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		First(&item).Error
	if err != nil {
		return nil, wrapError(err, "find cart item")
	}
	return &item, nil
}

// GetItem retrieves a cart item with its product.
func (r *GORMCartRepository) GetItem(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, fmt.Sprintf("get cart item %s", id))
	}
	return &item, nil
}

// SaveItem inserts or updates a cart item.
func (r *GORMCartRepository) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
		if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
			return wrapError(err, "create cart item")
		}
		return nil
	}
	res := r.db.WithContext(ctx).Model(item).
		Select("quantity", "color").
		Updates(item)
	if res.Error != nil {
		return wrapError(res.Error, "update cart item")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

// DeleteItem removes a single cart item.
func (r *GORMCartRepository) DeleteItem(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return wrapError(res.Error, "delete cart item")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearItems empties a cart. The cart row itself is kept.
func (r *GORMCartRepository) ClearItems(ctx context.Context, cartID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return wrapError(err, "clear cart")
	}
	return nil
}

// DeleteItemsByProduct removes every cart line pointing at a product.
func (r *GORMCartRepository) DeleteItemsByProduct(ctx context.Context, productID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartItem{}, "product_id = ?", productID).Error; err != nil {
		return wrapError(err, "delete cart items for product")
	}
	return nil
}

// CountItems implements CartRepository.
func (r *GORMCartRepository) CountItems(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, wrapError(err, "count cart items")
	}
	return total, nil
}
