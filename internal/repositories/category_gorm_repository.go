package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetByID retrieves a category with its parent.
func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, fmt.Sprintf("get category %s", id))
	}
	return &category, nil
}

// GetForUpdate implements CategoryRepository.
func (r *GORMCategoryRepository) GetForUpdate(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, wrapError(err, fmt.Sprintf("lock category %s", id))
	}
	return &category, nil
}

// SiblingExists implements CategoryRepository.
func (r *GORMCategoryRepository) SiblingExists(ctx context.Context, parentID *string, name, excludeID string) (bool, error) {
	sibling := models.Category{Name: name, ParentID: parentID}
	sibling.SetKeys()
	q := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_key = ? AND name_key = ?", sibling.ParentKey, sibling.NameKey)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, wrapError(err, "check sibling names")
	}
	return count > 0, nil
}

// List returns every category ordered by name, with parents loaded.
func (r *GORMCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Preload("Parent").Order("name").Find(&categories).Error; err != nil {
		return nil, wrapError(err, "list categories")
	}
	return categories, nil
}

// ChildIDs returns the ids of the direct children of a category.
func (r *GORMCategoryRepository) ChildIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("parent_id = ?", id).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, wrapError(err, "list child categories")
	}
	return ids, nil
}

// Count returns the total number of categories.
func (r *GORMCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, wrapError(err, "count categories")
	}
	return count, nil
}

// CountChildren returns how many categories name id as their parent.
func (r *GORMCategoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("parent_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, wrapError(err, "count child categories")
	}
	return count, nil
}

// Create inserts a new category.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.SetKeys()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return wrapError(err, "create category")
	}
	return nil
}

// Update saves name, slug and parent of an existing category.
func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.SetKeys()
	res := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"slug":       category.Slug,
			"parent_id":  category.ParentID,
			"name_key":   category.NameKey,
			"parent_key": category.ParentKey,
		})
	if res.Error != nil {
		return wrapError(res.Error, "update category")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s: %w", category.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a category by id.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return wrapError(res.Error, "delete category")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
