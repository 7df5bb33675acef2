package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWebhookService(store *MockStore, gw *MockGateway, pub *MockPublisher) *services.WebhookService {
	var publisher services.OrderEventPublisher
	if pub != nil {
		publisher = pub
	}
	return services.NewWebhookService(store, gw, services.NewOrderService(store, publisher))
}

func cartWithShoes() *models.Cart {
	shoe := &models.Product{ID: "p1", Name: "Pegasus", Price: decimal.NewFromInt(100000)}
	return &models.Cart{
		ID:     "cart-1",
		UserID: "u1",
		Items: []models.CartItem{
			{ID: "ci-1", CartID: "cart-1", ProductID: "p1", Product: shoe, Size: "42", Quantity: 2, Color: "black"},
		},
	}
}

func completedCheckout() payment.CompletedCheckout {
	return payment.CompletedCheckout{
		SessionID:         "cs_1",
		ClientReferenceID: "u1",
		AmountTotal:       20000000,
		Metadata:          map[string]string{"address": "Jl. Sudirman 1", "fullName": "Budi", "phone": "0812"},
	}
}

func TestWebhookService_MaterializeOrder(t *testing.T) {
	store := newMockStore()
	pub := new(MockPublisher)
	service := newWebhookService(store, new(MockGateway), pub)

	store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_1").Return(nil, repositories.ErrNotFound).Once()
	store.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(cartWithShoes(), nil).Once()
	var saved *models.Order
	store.OrderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.Order)
			saved.ID = "order-1"
		}).Return(nil).Once()
	store.CartRepo.On("ClearItems", mock.Anything, "cart-1").Return(nil).Once()
	pub.On("PublishOrderCreated", mock.Anything, services.OrderCreatedEvent{
		OrderID: "order-1", UserID: "u1", Total: "200000", Items: 1,
	}).Return(nil).Once()

	result, err := service.MaterializeOrder(context.Background(), "evt_1", completedCheckout())
	require.NoError(t, err)
	assert.True(t, result.Received)
	assert.Equal(t, "order-1", result.OrderID)

	require.NotNil(t, saved)
	assert.Equal(t, models.OrderStatusProcessing, saved.Status)
	assert.True(t, decimal.NewFromInt(200000).Equal(saved.Total))
	assert.Equal(t, "Budi", saved.CustomerName)
	assert.Equal(t, "evt_1", *saved.PaymentEventID)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "42", saved.Items[0].Size)
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.Equal(t, "Pegasus", saved.Items[0].ProductName)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestWebhookService_MaterializeOrder_MissingUser(t *testing.T) {
	store := newMockStore()
	service := newWebhookService(store, new(MockGateway), nil)

	checkout := completedCheckout()
	checkout.ClientReferenceID = ""
	_, err := service.MaterializeOrder(context.Background(), "evt_1", checkout)
	assert.ErrorIs(t, err, services.ErrMissingUser)
	assert.ErrorIs(t, err, services.ErrValidation)
	store.AssertExpectations(t)
}

func TestWebhookService_MaterializeOrder_NoCart(t *testing.T) {
	for name, setup := range map[string]func(*MockStore){
		"missing": func(s *MockStore) {
			s.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(nil, repositories.ErrNotFound).Once()
		},
		"empty": func(s *MockStore) {
			s.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(&models.Cart{ID: "cart-1", UserID: "u1"}, nil).Once()
		},
	} {
		t.Run(name, func(t *testing.T) {
			store := newMockStore()
			service := newWebhookService(store, new(MockGateway), nil)
			store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_1").Return(nil, repositories.ErrNotFound).Once()
			setup(store)

			result, err := service.MaterializeOrder(context.Background(), "evt_1", completedCheckout())
			require.NoError(t, err)
			assert.True(t, result.Received)
			assert.Empty(t, result.OrderID)
			assert.NotEmpty(t, result.Message)
			store.OrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			store.AssertExpectations(t)
		})
	}
}

func TestWebhookService_MaterializeOrder_Replay(t *testing.T) {
	store := newMockStore()
	service := newWebhookService(store, new(MockGateway), nil)
	store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_1").Return(&models.Order{ID: "order-1"}, nil).Once()

	result, err := service.MaterializeOrder(context.Background(), "evt_1", completedCheckout())
	require.NoError(t, err)
	assert.Equal(t, "order-1", result.OrderID)
	store.CartRepo.AssertNotCalled(t, "LockByUserID", mock.Anything, mock.Anything)
	store.OrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookService_MaterializeOrder_ConcurrentDuplicate(t *testing.T) {
	store := newMockStore()
	service := newWebhookService(store, new(MockGateway), nil)
	store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_1").Return(nil, repositories.ErrNotFound).Once()
	store.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(cartWithShoes(), nil).Once()
	store.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate).Once()

	result, err := service.MaterializeOrder(context.Background(), "evt_1", completedCheckout())
	require.NoError(t, err)
	assert.True(t, result.Received)
	store.CartRepo.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
}

func TestWebhookService_MaterializeOrder_ClearFailureIsInternal(t *testing.T) {
	store := newMockStore()
	pub := new(MockPublisher)
	service := newWebhookService(store, new(MockGateway), pub)
	store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_1").Return(nil, repositories.ErrNotFound).Once()
	store.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(cartWithShoes(), nil).Once()
	store.OrderRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	store.CartRepo.On("ClearItems", mock.Anything, "cart-1").Return(errors.New("disk full")).Once()

	_, err := service.MaterializeOrder(context.Background(), "evt_1", completedCheckout())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)
	pub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything, mock.Anything)
}

func TestWebhookService_HandleStripeEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("bad signature", func(t *testing.T) {
		store := newMockStore()
		gw := new(MockGateway)
		service := newWebhookService(store, gw, nil)
		gw.On("ParseWebhook", []byte("{}"), "t=1,v1=bad").Return(nil, payment.ErrInvalidSignature).Once()

		_, err := service.HandleStripeEvent(ctx, []byte("{}"), "t=1,v1=bad")
		assert.ErrorIs(t, err, services.ErrSignature)
		store.AssertExpectations(t)
	})

	t.Run("other event types are acknowledged", func(t *testing.T) {
		gw := new(MockGateway)
		service := newWebhookService(newMockStore(), gw, nil)
		gw.On("ParseWebhook", mock.Anything, "sig").Return(&payment.Event{ID: "evt_2", Type: "charge.refunded"}, nil).Once()

		result, err := service.HandleStripeEvent(ctx, []byte("{}"), "sig")
		require.NoError(t, err)
		assert.True(t, result.Received)
		assert.Empty(t, result.OrderID)
	})

	t.Run("completed checkout materializes", func(t *testing.T) {
		store := newMockStore()
		gw := new(MockGateway)
		service := newWebhookService(store, gw, nil)
		checkout := completedCheckout()
		gw.On("ParseWebhook", mock.Anything, "sig").
			Return(&payment.Event{ID: "evt_3", Type: payment.EventCheckoutCompleted, Checkout: &checkout}, nil).Once()
		store.OrderRepo.On("GetByPaymentEventID", mock.Anything, "evt_3").Return(nil, repositories.ErrNotFound).Once()
		store.CartRepo.On("LockByUserID", mock.Anything, "u1").Return(nil, repositories.ErrNotFound).Once()

		result, err := service.HandleStripeEvent(ctx, []byte("{}"), "sig")
		require.NoError(t, err)
		assert.True(t, result.Received)
		store.AssertExpectations(t)
	})
}
