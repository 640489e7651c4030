package services

import (
	"context"
	"fmt"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
)

// CartLine is a cart item priced at the product's live price. Totals are
// only frozen once an order is created.
type CartLine struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

type CartService struct {
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartService(cartItemRepo repositories.CartItemRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.cartItemRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &CartView{
		Items:     make([]CartLine, 0, len(items)),
		ItemCount: len(items),
		Total:     decimal.Zero,
	}

	for _, item := range items {
		line := CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   item.Product,
		}
		if item.Product != nil {
			line.Price = item.Product.Price
			line.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			view.Total = view.Total.Add(line.Subtotal)
		}
		view.Items = append(view.Items, line)
	}

	return view, nil
}

// AddItem upserts the (user, product) row. A repeat add bumps the quantity,
// and the combined quantity must still fit the product's current stock.
func (s *CartService) AddItem(ctx context.Context, userID string, productID uint, qty int) (*CartView, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}
	if product.StockQuantity < 1 {
		return nil, helpers.ErrOutOfStock
	}

	existing, err := s.cartItemRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing cart item: %w", err)
	}

	newQty := qty
	if existing != nil {
		newQty += existing.Quantity
	}
	if newQty > product.StockQuantity {
		return nil, &helpers.StockError{ProductName: product.Name, Available: product.StockQuantity}
	}

	if existing != nil {
		existing.Quantity = newQty
		if err := s.cartItemRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	} else {
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
		}
		if err := s.cartItemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID string, cartItemID uint, qty int) (*CartView, error) {
	item, err := s.cartItemRepo.GetByIDForUser(ctx, cartItemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return nil, helpers.ErrNotFound
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product for cart item: %w", err)
	}
	if product == nil {
		return nil, helpers.ErrNotFound
	}
	if qty > product.StockQuantity {
		return nil, &helpers.StockError{ProductName: product.Name, Available: product.StockQuantity}
	}

	item.Quantity = qty
	if err := s.cartItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, cartItemID uint) (*CartView, error) {
	item, err := s.cartItemRepo.GetByIDForUser(ctx, cartItemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return nil, helpers.ErrNotFound
	}

	if err := s.cartItemRepo.Delete(ctx, cartItemID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartItemRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
