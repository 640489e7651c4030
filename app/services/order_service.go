package services

import (
	"context"
	"fmt"
	"log"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"github.com/lunarbyte/go-storefront/app/repositories"
	"github.com/lunarbyte/go-storefront/app/services/notify"
)

type OrderListResult struct {
	Orders []models.Order `json:"orders"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
	Total  int64          `json:"total"`
}

// OrderService covers everything after placement: history reads and the
// post-creation status machine. Financial fields never change here.
type OrderService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepositoryImpl
	notifier  notify.Notifier
}

func NewOrderService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepositoryImpl, notifier notify.Notifier) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

func (s *OrderService) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

func (s *OrderService) GetForUser(ctx context.Context, orderID uint, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, helpers.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) AllOrders(ctx context.Context, page, limit int) (*OrderListResult, error) {
	orders, total, err := s.orderRepo.GetAllPaginated(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{
		Orders: orders,
		Page:   page,
		Pages:  helpers.PageCount(total, limit),
		Total:  total,
	}, nil
}

// MarkPaid is the customer-side pending -> paid transition.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uint, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, helpers.ErrNotFound
	}
	if order.Status == models.OrderStatusPaid {
		return nil, helpers.ErrOrderAlreadyPaid
	}
	if order.Status != models.OrderStatusPending {
		return nil, helpers.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatusPaid); err != nil {
		return nil, fmt.Errorf("failed to mark order %d paid: %w", orderID, err)
	}
	order.Status = models.OrderStatusPaid

	s.notifyStatus(ctx, order)
	return order, nil
}

// UpdateStatus is the admin transition endpoint.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, helpers.ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, helpers.ErrNotFound
	}

	if !canTransition(order.Status, status) {
		return nil, helpers.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	order.Status = status

	s.notifyStatus(ctx, order)
	return order, nil
}

// canTransition encodes the post-creation state machine:
// pending -> anything; paid/processing/shipped advance forward;
// cancelled is reachable from any pre-delivered state; delivered and
// cancelled are terminal.
func canTransition(from, to string) bool {
	if from == models.OrderStatusDelivered || from == models.OrderStatusCancelled {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}

	forward := map[string][]string{
		models.OrderStatusPending:    {models.OrderStatusPaid, models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered},
		models.OrderStatusPaid:       {models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered},
		models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusDelivered},
		models.OrderStatusShipped:    {models.OrderStatusDelivered},
	}
	for _, allowed := range forward[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *OrderService) notifyStatus(ctx context.Context, order *models.Order) {
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil || user == nil {
		log.Printf("OrderService.notifyStatus: could not load user %s for order %d: %v", order.UserID, order.ID, err)
		return
	}
	if err := s.notifier.OrderConfirmation(ctx, user, order); err != nil {
		log.Printf("OrderService.notifyStatus: notification for order %d failed: %v", order.ID, err)
	}
}
