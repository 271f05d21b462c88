package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Event routing keys published to the order exchange.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"
)

// OrderEvent is the payload published after a successful order mutation.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id"`
	Total      int64     `json:"total"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers order events to interested consumers.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close()
}

// AMQPPublisher publishes order events to a durable RabbitMQ exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares the order exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// PublishOrderEvent sends the event with its type as routing key.
func (p *AMQPPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		ContentType:  "application/json",
		Body:         body,
	}

	return p.channel.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg)
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

func (NoopPublisher) Close() {}
