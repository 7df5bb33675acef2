package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repositories"
	"storefront/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRabbitMQClient is a mock implementation of the order event publisher.
type MockRabbitMQClient struct {
	mock.Mock
}

func (m *MockRabbitMQClient) PublishOrderCreated(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:             ":8081",
		DBDriver:            "sqlite",
		JWTSecret:           "test_jwt_secret",
		StripeSecretKey:     "sk_test_123",
		StripeWebhookSecret: "whsec_test",
		PaymentCurrency:     "idr",
		AppURL:              "http://localhost:3000",
		RequestTimeout:      5 * time.Second,
		CORSOrigins:         "*",
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestNewAppRequiresDependencies(t *testing.T) {
	_, _, err := NewApp(Dependencies{Config: testConfig()})
	assert.Error(t, err)
}

func TestServerHealthAndAuth(t *testing.T) {
	cfg := testConfig()
	mockMQ := new(MockRabbitMQClient)
	app, authService, err := NewApp(Dependencies{
		Config:    cfg,
		DB:        openTestDB(t),
		Payments:  payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
		Publisher: mockMQ,
	})
	require.NoError(t, err)
	require.NotNil(t, authService)

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "\"status\":\"healthy\"")
	})

	t.Run("PublicCatalog", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("UnauthenticatedCart", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnauthenticatedAdmin", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	mockMQ.AssertNotCalled(t, "PublishOrderCreated", mock.Anything, mock.Anything)
}

func TestSeedCatalog(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewGORMStore(openTestDB(t))

	require.NoError(t, seedCatalog(store))

	categories, err := store.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), categories)
	products, err := store.Products().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), products)

	// A second run leaves the catalog alone.
	require.NoError(t, seedCatalog(store))
	categories, err = store.Categories().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), categories)
}
