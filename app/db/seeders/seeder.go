package seeders

import (
	"context"
	"log"

	"github.com/lunarbyte/go-storefront/app/db/fakers"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"gorm.io/gorm"
)

const demoProductsPerCategory = 5

// StandardCategories is the storefront's bootstrap taxonomy. Seeding is
// idempotent, so it is safe to run against a populated database.
var StandardCategories = []models.Category{
	{Name: "Electronics", Description: "Phones, laptops and gadgets"},
	{Name: "Clothing", Description: "Apparel for every season"},
	{Name: "Home & Garden", Description: "Furniture, decor and outdoor living"},
	{Name: "Books", Description: "Fiction, non-fiction and everything between"},
	{Name: "Sports & Outdoors", Description: "Gear for training and adventure"},
}

// BootstrapCategories upserts the standard taxonomy. It runs on every server
// start as well as from the seed command.
func BootstrapCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error) {
	categoryRepo := repositories.NewCategoryRepository(db)

	ready := make([]models.Category, 0, len(StandardCategories))
	for i := range StandardCategories {
		category := StandardCategories[i]
		category.Slug = helpers.MakeSlug(category.Name)
		if err := categoryRepo.UpsertBySlug(ctx, &category); err != nil {
			return nil, err
		}
		ready = append(ready, category)
	}
	return ready, nil
}

func Seed(ctx context.Context, db *gorm.DB) error {
	productRepo := repositories.NewProductRepository(db)

	categories, err := BootstrapCategories(ctx, db)
	if err != nil {
		return err
	}

	for i := range categories {
		category := categories[i]
		log.Printf("Seeder: category %q ready (id=%d)", category.Name, category.ID)

		for j := 0; j < demoProductsPerCategory; j++ {
			product := fakers.ProductFaker(&category)
			if err := productRepo.Create(ctx, product); err != nil {
				return err
			}
		}
	}
	return nil
}
