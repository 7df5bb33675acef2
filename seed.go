package main

import (
	"context"
	"log"

	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
)

type seedBrand struct {
	name  string
	lines []string
}

var seedBrands = []seedBrand{
	{name: "Nike", lines: []string{"Running", "Basketball"}},
	{name: "Adidas", lines: []string{"Running", "Lifestyle"}},
}

// seedCatalog fills an empty database with a few brands, lines and products.
// It goes through the services so the usual category rules apply.
func seedCatalog(store repositories.Store) error {
	ctx := context.Background()
	count, err := store.Categories().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d categories, skipping seed", count)
		return nil
	}

	categories := services.NewCategoryService(store)
	products := services.NewProductService(store)

	for _, brand := range seedBrands {
		parent, err := categories.Create(ctx, services.CategoryInput{Name: brand.name})
		if err != nil {
			return err
		}
		for i, line := range brand.lines {
			child, err := categories.Create(ctx, services.CategoryInput{Name: line, ParentID: &parent.ID})
			if err != nil {
				return err
			}
			product, err := products.CreateProduct(ctx, services.ProductInput{
				Name:        brand.name + " " + line + " Classic",
				Description: "Sample " + line + " shoe",
				Price:       decimal.NewFromInt(int64(750000 + i*250000)),
				Stock:       20,
				Images:      []string{"https://placehold.co/600x600?text=" + brand.name},
				CategoryID:  child.ID,
			})
			if err != nil {
				log.Printf("Error seeding product for %s/%s: %v", brand.name, line, err)
				continue
			}
			log.Printf("Seeded product: %s (ID: %s)", product.Name, product.ID)
		}
	}
	return nil
}
