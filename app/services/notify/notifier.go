// Package notify emits best-effort order notifications. Failures here are
// logged by callers and never unwind a committed order.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/leekchan/accounting"
	"github.com/lunarbyte/go-storefront/app/models"
)

type Notifier interface {
	OrderConfirmation(ctx context.Context, user *models.UserProfile, order *models.Order) error
}

var money = accounting.Accounting{Symbol: "$", Precision: 2}

// ConsoleNotifier writes the would-be email to the process log.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (n *ConsoleNotifier) OrderConfirmation(ctx context.Context, user *models.UserProfile, order *models.Order) error {
	subject := fmt.Sprintf("Order Confirmation #%d", order.ID)
	body := buildOrderConfirmationBody(user, order)

	log.Printf("\n========== EMAIL SENT ==========\nTo: %s\nSubject: %s\nBody:\n%s\n================================\n",
		user.Email, subject, body)
	return nil
}

func buildOrderConfirmationBody(user *models.UserProfile, order *models.Order) string {
	return fmt.Sprintf(
		"Thank you for your order, %s!\n\nOrder #%d\nStatus: %s\nTotal: %s",
		user.FullName(),
		order.ID,
		order.Status,
		money.FormatMoney(order.TotalAmount),
	)
}
