package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductListQuery carries the catalog listing filters. Zero values mean
// "no filter"; Search must already be sanitized by the caller.
type ProductListQuery struct {
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	Status       string
	Sort         string
	Limit        int
	Offset       int
}

// TopProduct is the aggregated projection for the top-rated listing.
type TopProduct struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
}

type ProductRepositoryImpl interface {
	List(ctx context.Context, query ProductListQuery) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetDetailByID(ctx context.Context, id uint) (*models.Product, error)
	GetDetailBySlug(ctx context.Context, slug string) (*models.Product, error)
	TopRated(ctx context.Context, limit int) ([]TopProduct, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	ZeroStock(ctx context.Context, id uint) error
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) applyFilters(db *gorm.DB, query ProductListQuery) *gorm.DB {
	q := db.Model(&models.Product{})

	if query.CategorySlug != "" {
		q = q.Joins("JOIN categories c ON c.id = products.category_id").
			Where("c.slug = ?", query.CategorySlug)
	}
	if query.MinPrice != nil {
		q = q.Where("price >= ?", query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("price <= ?", query.MaxPrice)
	}
	if query.Search != "" {
		keyword := "%" + strings.ToLower(query.Search) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.sku) LIKE ?",
			keyword, keyword, keyword)
	}

	switch query.Status {
	case models.StockStatusOut:
		q = q.Where("stock_quantity <= 0")
	case models.StockStatusLow:
		q = q.Where("stock_quantity > 0 AND stock_quantity <= ?", models.LowStockThreshold)
	case models.StockStatusIn:
		q = q.Where("stock_quantity > ?", models.LowStockThreshold)
	}

	return q
}

func sortOrder(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "name_asc":
		return "products.name ASC"
	case "name_desc":
		return "products.name DESC"
	default: // newest
		return "products.created_at DESC"
	}
}

func (p *productRepository) List(ctx context.Context, query ProductListQuery) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.applyFilters(p.db.WithContext(ctx), query).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.applyFilters(p.db.WithContext(ctx), query).
		Preload("Category").
		Order(sortOrder(query.Sort)).
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetDetailByID loads the full product-detail graph: category plus reviews
// with their reviewer. Cart and checkout stay on the lean GetByID.
func (p *productRepository) GetDetailByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.detailQuery(ctx).First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetDetailBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.detailQuery(ctx).First(&product, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) detailQuery(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews.User")
}

// TopRated returns reviewed products ordered by average rating, ties broken
// by review count. Products without reviews never appear.
func (p *productRepository) TopRated(ctx context.Context, limit int) ([]TopProduct, error) {
	var top []TopProduct
	err := p.db.WithContext(ctx).Model(&models.Product{}).
		Select("products.id, products.name, products.slug, products.price, products.image_url, "+
			"AVG(product_reviews.rating) AS average_rating, COUNT(product_reviews.id) AS review_count").
		Joins("JOIN product_reviews ON product_reviews.product_id = products.id").
		Group("products.id").
		Order("average_rating DESC, review_count DESC").
		Limit(limit).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}
	return top, nil
}

func (p *productRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := p.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) ZeroStock(ctx context.Context, id uint) error {
	return p.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", 0).Error
}

// GetForUpdate reads a product inside tx, taking a row lock on engines that
// support it so concurrent placements serialize on the rows they decrement.
// SQLite (tests) has no FOR UPDATE; its writer lock covers the same case.
func (p *productRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Product, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) DecrementStock(ctx context.Context, tx *gorm.DB, id uint, qty int) error {
	return tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error
}
