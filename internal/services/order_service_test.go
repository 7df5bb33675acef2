package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_GetOrderForUser(t *testing.T) {
	store := newMockStore()
	service := services.NewOrderService(store, nil)
	order := &models.Order{ID: "o1", UserID: "u1"}
	store.OrderRepo.On("GetByID", mock.Anything, "o1").Return(order, nil).Twice()

	got, err := service.GetOrderForUser(context.Background(), "u1", "o1")
	require.NoError(t, err)
	assert.Equal(t, order, got)

	_, err = service.GetOrderForUser(context.Background(), "someone-else", "o1")
	assert.ErrorIs(t, err, services.ErrNotFound)
	store.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		store := newMockStore()
		service := services.NewOrderService(store, nil)
		store.OrderRepo.On("GetForUpdate", mock.Anything, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusProcessing}, nil).Once()
		store.OrderRepo.On("UpdateStatus", mock.Anything, "o1", models.OrderStatusShipped).Return(nil).Once()

		order, err := service.UpdateOrderStatus(ctx, "o1", "shipped")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, order.Status)
		store.OrderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("skipping a stage", func(t *testing.T) {
		store := newMockStore()
		service := services.NewOrderService(store, nil)
		store.OrderRepo.On("GetForUpdate", mock.Anything, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusPending}, nil).Once()

		_, err := service.UpdateOrderStatus(ctx, "o1", "DELIVERED")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
		store.OrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("terminal order", func(t *testing.T) {
		store := newMockStore()
		service := services.NewOrderService(store, nil)
		store.OrderRepo.On("GetForUpdate", mock.Anything, "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusDelivered}, nil).Once()

		_, err := service.UpdateOrderStatus(ctx, "o1", "CANCELLED")
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		service := services.NewOrderService(newMockStore(), nil)
		_, err := service.UpdateOrderStatus(ctx, "o1", "LOST")
		assert.ErrorIs(t, err, services.ErrValidation)
	})
}
