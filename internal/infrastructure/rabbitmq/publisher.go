package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RefundTicket is the ops-queue message raised for every completed charge
// that lacks a fulfilled order. An operator (or an automated reversal job)
// consumes the queue and issues the refund.
type RefundTicket struct {
	OrderID       string `json:"order_id"`
	BuyerID       string `json:"buyer_id"`
	AmountCents   int64  `json:"amount_cents"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	OccurredAt    string `json:"occurred_at"`
}

type Publisher struct {
	ch    *amqp.Channel
	queue string
}

// NewPublisher declares the durable refund queue and returns a publisher
// bound to it.
func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("rabbitmq: declare queue %s: %w", queue, err)
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

func (p *Publisher) Publish(ctx context.Context, ticket RefundTicket) error {
	body, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal refund ticket: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
