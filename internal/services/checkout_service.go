package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/payment"
)

// CheckoutService opens hosted payment sessions for the caller's cart.
type CheckoutService struct {
	store    repositories.Store
	gateway  payment.Gateway
	currency string
	appURL   string
}

// NewCheckoutService creates a new CheckoutService. appURL is the public
// storefront address the processor redirects back to.
func NewCheckoutService(store repositories.Store, gateway payment.Gateway, currency, appURL string) *CheckoutService {
	return &CheckoutService{
		store:    store,
		gateway:  gateway,
		currency: strings.ToLower(currency),
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

// CreateSession prices the user's server-side cart and creates a checkout
// session for it. Client supplied prices are never used.
func (s *CheckoutService) CreateSession(ctx context.Context, userID string, address models.ShippingAddress) (*payment.CheckoutSession, error) {
	cart, err := s.store.Carts().GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && len(cart.Items) == 0) {
		return nil, validationError("cart is empty")
	}
	if err != nil {
		return nil, err
	}

	req := payment.CheckoutRequest{
		ClientReferenceID: userID,
		Currency:          s.currency,
		SuccessURL:        s.appURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         s.appURL + "/cart",
		Metadata: map[string]string{
			"address":  address.Formatted(),
			"fullName": address.FullName,
			"phone":    address.Phone,
			"userId":   userID,
		},
	}
	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("cart item %s references missing product %s", item.ID, item.ProductID)
		}
		req.LineItems = append(req.LineItems, payment.LineItem{
			Name:       fmt.Sprintf("%s (Size: %s)", item.Product.Name, item.Size),
			UnitAmount: item.Product.Price.Shift(2).IntPart(),
			Quantity:   int64(item.Quantity),
			Images:     item.Product.Images,
			Metadata: map[string]string{
				"productId": item.ProductID,
				"size":      item.Size,
				"color":     item.Color,
			},
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session for user %s: %w", userID, err)
	}
	return session, nil
}
