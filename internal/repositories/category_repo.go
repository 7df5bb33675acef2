package repositories

import (
	"context"

	"storefront/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// GetForUpdate loads a category and holds a row lock on it until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Category, error)
	// SiblingExists reports whether a category other than excludeID already
	// uses name (case-insensitive) under the same parent.
	SiblingExists(ctx context.Context, parentID *string, name, excludeID string) (bool, error)
	List(ctx context.Context) ([]models.Category, error)
	ChildIDs(ctx context.Context, id string) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CountChildren(ctx context.Context, id string) (int64, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}
