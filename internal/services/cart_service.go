package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

const defaultColor = "default"

// AddToCartInput is a request to put a product in the cart.
type AddToCartInput struct {
	ProductID string
	Size      string
	Quantity  int
	Color     string
}

// CartService manages the per-user cart.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// AddItem adds a product+size to the user's cart, creating the cart on
// first use. An existing line for the same product and size is incremented.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddToCartInput) (*models.CartItem, error) {
	in.Size = strings.TrimSpace(in.Size)
	if in.ProductID == "" || in.Size == "" {
		return nil, validationError("productId and size are required")
	}
	if in.Quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	if strings.TrimSpace(in.Color) == "" {
		in.Color = defaultColor
	}

	if _, err := s.store.Products().GetByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.store.Carts().GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	var saved *models.CartItem
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		cart, err := tx.Carts().LockByUserID(ctx, userID)
		if err != nil {
			return err
		}
		item, err := tx.Carts().FindItem(ctx, cart.ID, in.ProductID, in.Size)
		switch {
		case err == nil:
			item.Quantity += in.Quantity
			item.Color = in.Color
		case errors.Is(err, repositories.ErrNotFound):
			item = &models.CartItem{
				CartID:    cart.ID,
				ProductID: in.ProductID,
				Size:      in.Size,
				Quantity:  in.Quantity,
				Color:     in.Color,
			}
		default:
			return err
		}
		if err := tx.Carts().SaveItem(ctx, item); err != nil {
			return err
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetCart returns the user's cart with its subtotal. A user without a cart
// gets an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.CartView{Cart: &models.Cart{UserID: userID, Items: []models.CartItem{}}, Subtotal: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	view := &models.CartView{Cart: cart, Subtotal: decimal.Zero}
	for _, item := range cart.Items {
		view.Subtotal = view.Subtotal.Add(item.LineTotal())
		view.TotalItems += item.Quantity
	}
	return view, nil
}

// Count returns the number of units in the user's cart.
func (s *CartService) Count(ctx context.Context, userID string) (int64, error) {
	return s.store.Carts().CountItems(ctx, userID)
}

// UpdateItemQuantity sets the quantity of a line in the caller's cart.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.store.Carts().SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a line from the caller's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.store.Carts().DeleteItem(ctx, itemID)
}

func (s *CartService) ownedItem(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	item, err := s.store.Carts().GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Carts().GetByID(ctx, item.CartID)
	if err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, fmt.Errorf("%w: cart item %s belongs to another user", ErrUnauthorized, itemID)
	}
	return item, nil
}
