package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/gosimple/slug"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name     string
	ParentID *string
}

func (in CategoryInput) normalize() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) == "" {
		in.ParentID = nil
	}
	return in
}

// CategoryService keeps the brand / sub-brand tree consistent. Every write
// validates and mutates inside one transaction holding row locks on the
// categories it reads.
type CategoryService struct {
	store repositories.Store
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store repositories.Store) *CategoryService {
	return &CategoryService{store: store}
}

// List returns brands and sub-brands as two name-ordered lists.
func (s *CategoryService) List(ctx context.Context) (*models.CategoryListing, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, err
	}
	listing := &models.CategoryListing{
		MainCategories: []models.Category{},
		SubCategories:  []models.Category{},
	}
	for _, c := range categories {
		if c.IsRoot() {
			listing.MainCategories = append(listing.MainCategories, c)
		} else {
			listing.SubCategories = append(listing.SubCategories, c)
		}
	}
	return listing, nil
}

// Tree returns the brands with their sub-brands nested under Children.
func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]models.Category)
	for _, c := range categories {
		if c.ParentID != nil {
			c.Parent = nil
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	roots := []models.Category{}
	for _, c := range categories {
		if c.IsRoot() {
			c.Children = children[c.ID]
			roots = append(roots, c)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	return roots, nil
}

// Get returns a single category with its parent summary.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.store.Categories().GetByID(ctx, id)
}

// Create adds a brand, or a sub-brand when ParentID is set.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in = in.normalize()
	if in.Name == "" {
		return nil, validationError("name is required")
	}

	var created *models.Category
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := tx.Categories()
		// Lock the parent before looking at its children so concurrent
		// creates under it queue up behind the check.
		if in.ParentID != nil {
			if _, err := repo.GetForUpdate(ctx, *in.ParentID); err != nil {
				return fmt.Errorf("parent category: %w", err)
			}
		}
		exists, err := repo.SiblingExists(ctx, in.ParentID, in.Name, "")
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateName
		}

		category := &models.Category{Name: in.Name, Slug: slug.Make(in.Name), ParentID: in.ParentID}
		if err := repo.Create(ctx, category); err != nil {
			return duplicateName(err)
		}
		created, err = repo.GetByID(ctx, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update renames a category and reassigns its parent. A nil ParentID
// promotes the category to a brand.
func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	in = in.normalize()

	var updated *models.Category
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := tx.Categories()
		category, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Name == "" {
			return validationError("name is required")
		}
		if in.ParentID != nil {
			if *in.ParentID == id {
				return ErrSelfParent
			}
			if _, err := repo.GetForUpdate(ctx, *in.ParentID); err != nil {
				return fmt.Errorf("parent category: %w", err)
			}
			if err := ensureAcyclic(ctx, repo, id, *in.ParentID); err != nil {
				return err
			}
		}
		exists, err := repo.SiblingExists(ctx, in.ParentID, in.Name, id)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateName
		}

		category.Name = in.Name
		category.Slug = slug.Make(in.Name)
		category.ParentID = in.ParentID
		if err := repo.Update(ctx, category); err != nil {
			return duplicateName(err)
		}
		updated, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// duplicateName reports a unique index hit on the sibling name as
// ErrDuplicateName. Brands have no parent row to lock, so two concurrent
// creates can both pass SiblingExists and only the index stops the second.
func duplicateName(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	}
	return err
}

// ensureAcyclic walks the ancestors of parentID and fails if it meets id.
// The walk is capped by the category count and remembers visited nodes, so
// it also stops on chains that are already corrupt.
func ensureAcyclic(ctx context.Context, repo repositories.CategoryRepository, id, parentID string) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	visited := make(map[string]bool)
	current := parentID
	for steps := int64(0); ; steps++ {
		if current == id || visited[current] || steps >= total {
			return ErrCircularReference
		}
		visited[current] = true

		node, err := repo.GetForUpdate(ctx, current)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil // dangling link ends the chain
		}
		if err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

// Delete removes a leaf category that no product references.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx repositories.Store) error {
		repo := tx.Categories()
		if _, err := repo.GetForUpdate(ctx, id); err != nil {
			return err
		}
		children, err := repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return ErrHasChildren
		}
		products, err := tx.Products().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if products > 0 {
			return ErrHasProducts
		}
		return repo.Delete(ctx, id)
	})
}
