package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lunarbyte/go-storefront/app/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "storefront.events"
	ExchangeType = "topic"
)

// SetupConn dials the broker with a short retry loop (container startup) and
// declares the events exchange.
func SetupConn(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to RabbitMQ (attempt %d): %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(ExchangeName, ExchangeType, true, false, false, false, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

// AMQPNotifier publishes order events instead of emitting them locally;
// downstream consumers own delivery (mail, SMS, webhooks).
type AMQPNotifier struct {
	ch *amqp.Channel
}

func NewAMQPNotifier(ch *amqp.Channel) *AMQPNotifier {
	return &AMQPNotifier{ch: ch}
}

type orderConfirmedEvent struct {
	OrderID     uint   `json:"order_id"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	PlacedAt    string `json:"placed_at"`
}

func (n *AMQPNotifier) OrderConfirmation(ctx context.Context, user *models.UserProfile, order *models.Order) error {
	event := orderConfirmedEvent{
		OrderID:     order.ID,
		UserID:      user.ID,
		Email:       user.Email,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.StringFixed(2),
		PlacedAt:    order.CreatedAt.Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal order event: %w", err)
	}

	routingKey := fmt.Sprintf("order.%s", order.Status)

	return n.ch.PublishWithContext(ctx,
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
