package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/services/notify"
	"github.com/lunarbyte/go-storefront/app/services/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService runs the order placement workflow: everything between
// Begin and Commit is all-or-nothing, and the gateway charge happens inside
// the transaction so a failed stock re-check can never charge the card. The
// price of that choice is holding product row locks for the charge duration;
// the gateway's latency is bounded, so the tradeoff is accepted here rather
// than building a refund path.
type CheckoutService struct {
	db            *gorm.DB
	cartItemRepo  repositories.CartItemRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	addressRepo   repositories.AddressRepository
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	userRepo      repositories.UserRepositoryImpl
	gateway       payment.Gateway
	notifier      notify.Notifier
}

func NewCheckoutService(
	db *gorm.DB,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	addressRepo repositories.AddressRepository,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	userRepo repositories.UserRepositoryImpl,
	gateway payment.Gateway,
	notifier notify.Notifier,
) *CheckoutService {
	return &CheckoutService{
		db:            db,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		addressRepo:   addressRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		userRepo:      userRepo,
		gateway:       gateway,
		notifier:      notifier,
	}
}

// mock card payload; no real card details ever reach this system.
var checkoutCard = payment.CardDetails{Number: "4242424242424242", Expiry: "12/25", CVC: "123"}

func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, shippingAddressID uint) (*models.Order, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if r := recover(); r != nil {
			log.Printf("CheckoutService.PlaceOrder: rolling back after panic: %v", r)
			tx.Rollback()
			panic(r)
		}
		if !committed {
			tx.Rollback()
		}
	}()

	// Cart and products are re-read inside the transaction; a pre-transaction
	// snapshot could be stale by now.
	cartItems, err := s.cartItemRepo.GetByUserTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, helpers.ErrEmptyCart
	}

	address, err := s.addressRepo.FindByIDForUserTx(ctx, tx, shippingAddressID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping address: %w", err)
	}
	if address == nil {
		return nil, helpers.ErrInvalidAddress
	}

	totalAmount := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	decrements := make(map[uint]int, len(cartItems))

	for _, item := range cartItems {
		product, err := s.productRepo.GetForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock product %d: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, &helpers.StockError{ProductName: fmt.Sprintf("product %d", item.ProductID), Available: 0}
		}
		if product.StockQuantity < item.Quantity {
			return nil, &helpers.StockError{ProductName: product.Name, Available: product.StockQuantity}
		}

		totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price, // frozen at placement time
		})
		decrements[product.ID] = item.Quantity
	}

	chargeResult, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:         totalAmount,
		Card:           checkoutCard,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", helpers.ErrPaymentFailed, err)
	}
	if !chargeResult.Success {
		log.Printf("CheckoutService.PlaceOrder: payment declined for user %s: %s", userID, chargeResult.FailureReason)
		return nil, helpers.ErrPaymentFailed
	}

	order := &models.Order{
		UserID:            userID,
		Status:            models.OrderStatusPending,
		TotalAmount:       totalAmount,
		ShippingAddressID: address.ID,
		PaymentIntentID:   chargeResult.TransactionID,
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orderItemRepo.BulkCreate(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for productID, qty := range decrements {
		if err := s.productRepo.DecrementStock(ctx, tx, productID, qty); err != nil {
			return nil, fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
		}
	}

	if err := s.cartItemRepo.ClearTx(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	committed = true

	s.notifyOrder(ctx, userID, order)

	created, err := s.orderRepo.GetByIDWithRelations(ctx, order.ID)
	if err != nil {
		// The order exists; return the unhydrated row rather than an error.
		log.Printf("CheckoutService.PlaceOrder: failed to reload order %d: %v", order.ID, err)
		return order, nil
	}
	return created, nil
}

// notifyOrder runs after commit. A notification failure must never surface
// to the caller as a failed order.
func (s *CheckoutService) notifyOrder(ctx context.Context, userID string, order *models.Order) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		log.Printf("CheckoutService.notifyOrder: could not load user %s for order %d: %v", userID, order.ID, err)
		return
	}
	if err := s.notifier.OrderConfirmation(ctx, user, order); err != nil {
		log.Printf("CheckoutService.notifyOrder: notification for order %d failed: %v", order.ID, err)
	}
}
