package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	CategoryID  string
}

// ProductService handles business logic related to products.
type ProductService struct {
	store repositories.Store
}

// NewProductService creates a new ProductService.
func NewProductService(store repositories.Store) *ProductService {
	return &ProductService{
		store: store,
	}
}

// GetAllProducts retrieves products, optionally limited to a category. A
// brand also matches the products of its sub-brands.
func (s *ProductService) GetAllProducts(ctx context.Context, categoryID, search string) ([]models.Product, error) {
	filter := repositories.ProductFilter{Search: search}
	if categoryID != "" {
		children, err := s.store.Categories().ChildIDs(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = append([]string{categoryID}, children...)
	}
	return s.store.Products().GetAll(ctx, filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.store.Products().GetByID(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	product := &models.Product{}
	in.applyTo(product)
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	return s.store.Products().GetByID(ctx, product.ID)
}

// UpdateProduct replaces the writable fields of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	in.applyTo(product)
	product.Category = nil
	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	return s.store.Products().GetByID(ctx, id)
}

// DeleteProduct deletes a product and drops it from every cart. Past order
// items keep their snapshot.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Products().GetByID(ctx, id); err != nil {
			return err
		}
		if err := tx.Carts().DeleteItemsByProduct(ctx, id); err != nil {
			return err
		}
		return tx.Products().Delete(ctx, id)
	})
}

// ExportProducts writes every product to w as an .xlsx workbook.
func (s *ProductService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.store.Products().GetAll(ctx, repositories.ProductFilter{})
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range []string{"ID", "Name", "Description", "Price", "Stock", "Category", "Images", "CreatedAt"} {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.String())
		row.AddCell().SetInt(p.Stock)
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		row.AddCell().SetValue(category)
		row.AddCell().SetValue(strings.Join(p.Images, ","))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (s *ProductService) validate(ctx context.Context, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationError("name is required")
	}
	if !in.Price.IsPositive() {
		return validationError("price must be greater than 0")
	}
	if in.Stock < 0 {
		return validationError("stock cannot be negative")
	}
	if len(in.Images) == 0 {
		return validationError("at least one image is required")
	}
	if _, err := s.store.Categories().GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validationError("category %s does not exist", in.CategoryID)
		}
		return err
	}
	return nil
}

func (in ProductInput) applyTo(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.Images = in.Images
	p.CategoryID = in.CategoryID
}
