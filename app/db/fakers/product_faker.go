package fakers

import (
	"math"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/shopspring/decimal"
)

func ProductFaker(category *models.Category) *models.Product {
	name := faker.Word() + " " + faker.Word()
	slugText := slug.Make(name + "-" + uuid.NewString()[:6])

	product := &models.Product{
		Name:          name,
		Slug:          slugText,
		Sku:           slug.Make(name),
		Description:   faker.Sentence(),
		Price:         decimal.NewFromFloat(fakePrice()),
		StockQuantity: rand.Intn(100),
	}
	if category != nil {
		product.CategoryID = &category.ID
	}
	return product
}

func fakePrice() float64 {
	price := 5 + rand.Float64()*495
	return math.Round(price*100) / 100
}
