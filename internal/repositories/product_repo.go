package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	CategoryIDs []string
	Search      string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
