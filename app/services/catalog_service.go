package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	catalogCacheTTL     = 5 * time.Minute
	catalogVersionKey   = "catalog:ver"
	catalogKeyPrefix    = "catalog"
	defaultProductLimit = 10

	defaultTopProductLimit = 5
)

// ProductLookup is the tagged id-or-slug input for product detail reads.
// The kind is decided by a strict numeric parse at the boundary.
type ProductLookup struct {
	ID   uint
	Slug string
}

func ParseProductLookup(identifier string) ProductLookup {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return ProductLookup{ID: uint(id)}
	}
	return ProductLookup{Slug: identifier}
}

type ProductListResult struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Total    int64            `json:"total"`
}

type ProductInput struct {
	Name          string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	CategoryID    *uint
	ImageURL      *string
}

// CatalogService fronts product reads with a redis read-through cache
// (5 minute TTL, singleflight on misses) and owns the slug rules for
// product writes. Cart and checkout never read through this cache.
type CatalogService struct {
	productRepo   repositories.ProductRepositoryImpl
	categoryRepo  repositories.CategoryRepositoryImpl
	orderItemRepo repositories.OrderItemRepository
	cache         *redis.Client // nil disables caching
	group         singleflight.Group
}

func NewCatalogService(
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	orderItemRepo repositories.OrderItemRepository,
	cache *redis.Client,
) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		orderItemRepo: orderItemRepo,
		cache:         cache,
	}
}

func (s *CatalogService) cacheVersion(ctx context.Context) int64 {
	if s.cache == nil {
		return 0
	}
	ver, err := s.cache.Get(ctx, catalogVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("CatalogService.cacheVersion: redis get failed: %v", err)
	}
	return ver
}

// invalidate bumps the catalog namespace version; stale entries age out with
// their TTL instead of being scanned and deleted one by one.
func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, catalogVersionKey).Err(); err != nil {
		log.Printf("CatalogService.invalidate: redis incr failed: %v", err)
	}
}

func (s *CatalogService) cachedFetch(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error)) error {
	if s.cache == nil {
		fresh, err := fetch()
		if err != nil {
			return err
		}
		return remarshal(fresh, dest)
	}

	if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
		if err := json.Unmarshal([]byte(raw), dest); err == nil {
			return nil
		}
	}

	// singleflight collapses concurrent misses into one repository read.
	fresh, err, _ := s.group.Do(key, func() (interface{}, error) {
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, payload, catalogCacheTTL).Err(); err != nil {
			log.Printf("CatalogService.cachedFetch: redis set failed for %s: %v", key, err)
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(fresh.([]byte), dest)
}

func remarshal(src, dest interface{}) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}

func (s *CatalogService) List(ctx context.Context, query repositories.ProductListQuery, page int) (*ProductListResult, error) {
	if query.Limit <= 0 {
		query.Limit = defaultProductLimit
	}
	query.Search = helpers.SanitizeSearch(query.Search)

	key := fmt.Sprintf("%s:v%d:list:%s", catalogKeyPrefix, s.cacheVersion(ctx), listCacheKey(query, page))

	var result ProductListResult
	err := s.cachedFetch(ctx, key, &result, func() (interface{}, error) {
		products, total, err := s.productRepo.List(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return &ProductListResult{
			Products: products,
			Page:     page,
			Pages:    helpers.PageCount(total, query.Limit),
			Total:    total,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func listCacheKey(query repositories.ProductListQuery, page int) string {
	payload, _ := json.Marshal(struct {
		repositories.ProductListQuery
		Page int
	}{query, page})
	return string(payload)
}

func (s *CatalogService) Get(ctx context.Context, lookup ProductLookup) (*models.Product, error) {
	key := fmt.Sprintf("%s:v%d:product:%d:%s", catalogKeyPrefix, s.cacheVersion(ctx), lookup.ID, lookup.Slug)

	var product models.Product
	err := s.cachedFetch(ctx, key, &product, func() (interface{}, error) {
		var (
			p   *models.Product
			err error
		)
		if lookup.Slug == "" {
			p, err = s.productRepo.GetDetailByID(ctx, lookup.ID)
		} else {
			p, err = s.productRepo.GetDetailBySlug(ctx, lookup.Slug)
		}
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, helpers.ErrNotFound
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// TopProducts lists the highest-rated products by average review rating.
// Products without reviews never appear.
func (s *CatalogService) TopProducts(ctx context.Context, limit int) ([]repositories.TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopProductLimit
	}
	key := fmt.Sprintf("%s:v%d:top:%d", catalogKeyPrefix, s.cacheVersion(ctx), limit)

	var top []repositories.TopProduct
	err := s.cachedFetch(ctx, key, &top, func() (interface{}, error) {
		return s.productRepo.TopRated(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}

func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	productSlug := helpers.MakeSlug(input.Name)
	exists, err := s.productRepo.SlugExists(ctx, productSlug, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, helpers.ErrDuplicateSlug
	}

	product := &models.Product{
		Name: input.Name,
		Slug: productSlug,
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	product.CategoryID = input.CategoryID
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidate(ctx)
	return product, nil
}

// Update applies partial changes. The slug is regenerated only when the name
// actually changes, and the new slug must not collide with another product.
func (s *CatalogService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}

	if input.Name != "" && input.Name != product.Name {
		newSlug := helpers.MakeSlug(input.Name)
		exists, err := s.productRepo.SlugExists(ctx, newSlug, product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if exists {
			return nil, helpers.ErrDuplicateSlug
		}
		product.Name = input.Name
		product.Slug = newSlug
	}

	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	s.invalidate(ctx)
	return product, nil
}

// Delete hard-deletes a product, unless order items reference it, in which
// case the product is kept with zero stock so historical orders stay intact.
func (s *CatalogService) Delete(ctx context.Context, id uint) (softDisabled bool, err error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	if product == nil {
		return false, helpers.ErrNotFound
	}

	referenced, err := s.orderItemRepo.ExistsForProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check order references: %w", err)
	}

	if referenced {
		if err := s.productRepo.ZeroStock(ctx, id); err != nil {
			return false, fmt.Errorf("failed to zero stock for product %d: %w", id, err)
		}
		s.invalidate(ctx)
		return true, nil
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	s.invalidate(ctx)
	return false, nil
}
