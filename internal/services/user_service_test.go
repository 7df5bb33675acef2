package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("email owned by someone else", func(t *testing.T) {
		store := newMockStore()
		service := services.NewUserService(store)
		store.UserRepo.On("GetByID", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil).Once()
		store.UserRepo.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: "u2"}, nil).Once()

		_, err := service.UpdateUser(ctx, "u1", services.UserUpdate{Name: "A", Email: "Taken@example.com", Role: models.RoleUser})
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})

	t.Run("keeping own email", func(t *testing.T) {
		store := newMockStore()
		service := services.NewUserService(store)
		user := &models.User{ID: "u1", Email: "me@example.com", Role: models.RoleUser}
		store.UserRepo.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		store.UserRepo.On("GetByEmail", mock.Anything, "me@example.com").Return(user, nil).Once()
		store.UserRepo.On("Update", mock.Anything, user).Return(nil).Once()

		updated, err := service.UpdateUser(ctx, "u1", services.UserUpdate{Name: "Me", Email: "me@example.com", Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)
		store.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		service := services.NewUserService(newMockStore())
		_, err := service.UpdateUser(ctx, "u1", services.UserUpdate{Email: "x@example.com", Role: "ROOT"})
		assert.ErrorIs(t, err, services.ErrValidation)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	store := newMockStore()
	service := services.NewUserService(store)

	assert.ErrorIs(t, service.DeleteUser(context.Background(), "admin", "admin"), services.ErrValidation)

	store.UserRepo.On("Delete", mock.Anything, "u2").Return(nil).Once()
	assert.NoError(t, service.DeleteUser(context.Background(), "admin", "u2"))
	store.AssertExpectations(t)
}

func TestUserService_ResetPassword(t *testing.T) {
	store := newMockStore()
	service := services.NewUserService(store)
	user := &models.User{ID: "u1", Password: "old"}
	store.UserRepo.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
	store.UserRepo.On("Update", mock.Anything, user).Return(nil).Once()

	require.NoError(t, service.ResetPassword(context.Background(), "u1", "new-secret"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("new-secret")))

	assert.ErrorIs(t, service.ResetPassword(context.Background(), "u1", "123"), services.ErrValidation)
	store.AssertExpectations(t)
}

func TestDashboardService_Stats(t *testing.T) {
	store := newMockStore()
	service := services.NewDashboardService(store)
	store.UserRepo.On("Count", mock.Anything).Return(int64(3), nil).Once()
	store.ProductRepo.On("Count", mock.Anything).Return(int64(12), nil).Once()
	store.OrderRepo.On("Count", mock.Anything).Return(int64(7), nil).Once()
	store.CategoryRepo.On("Count", mock.Anything).Return(int64(4), nil).Once()
	store.OrderRepo.On("SumTotalByStatus", mock.Anything, models.OrderStatusDelivered).Return(decimal.NewFromInt(450000), nil).Once()
	store.OrderRepo.On("Recent", mock.Anything, 5).Return([]models.Order{{ID: "o7"}}, nil).Once()

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(7), stats.TotalOrders)
	assert.Equal(t, int64(4), stats.TotalCategories)
	assert.True(t, decimal.NewFromInt(450000).Equal(stats.Revenue))
	assert.Len(t, stats.RecentOrders, 1)
	store.AssertExpectations(t)
}

func TestDashboardService_StatsError(t *testing.T) {
	store := newMockStore()
	service := services.NewDashboardService(store)
	store.UserRepo.On("Count", mock.Anything).Return(int64(0), repositories.ErrNotFound).Maybe()
	store.ProductRepo.On("Count", mock.Anything).Return(int64(0), nil).Maybe()
	store.OrderRepo.On("Count", mock.Anything).Return(int64(0), nil).Maybe()
	store.CategoryRepo.On("Count", mock.Anything).Return(int64(0), nil).Maybe()
	store.OrderRepo.On("SumTotalByStatus", mock.Anything, mock.Anything).Return(decimal.Zero, nil).Maybe()
	store.OrderRepo.On("Recent", mock.Anything, mock.Anything).Return([]models.Order{}, nil).Maybe()

	_, err := service.Stats(context.Background())
	assert.Error(t, err)
}
