package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	"github.com/corpz/marketplace/internal/domain/outbox"
	"github.com/corpz/marketplace/internal/observability"
	"github.com/corpz/marketplace/internal/observability/logctx"
)

// Envelope is the wire shape of every order event on the topic. Partition
// key is the order id so events for one order stay ordered.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

// Relay subscribes to in-process order events and republishes them to the
// order topic for downstream consumers (notifications, analytics).
type Relay struct {
	producer   *Producer
	subscriber outbox.Subscriber
	service    string
	log        observability.Logger
}

func NewRelay(producer *Producer, subscriber outbox.Subscriber, service string, logger observability.Logger) *Relay {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Relay{
		producer:   producer,
		subscriber: subscriber,
		service:    service,
		log:        logger.With(observability.F("component", "kafka_relay")),
	}
}

func (r *Relay) Start() {
	if r.subscriber == nil || r.producer == nil {
		return
	}
	r.subscriber.Subscribe(domorder.OrderCreatedEvent{}.EventName(), r.handle)
	r.subscriber.Subscribe(domorder.OrderCancelledEvent{}.EventName(), r.handle)
	r.subscriber.Subscribe(domorder.OrderStatusChangedEvent{}.EventName(), r.handle)
}

func (r *Relay) handle(ctx context.Context, e outbox.Event) error {
	orderID := correlationID(e)
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     e.EventName(),
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      r.service,
		CorrelationID: orderID,
		Payload:       payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	r.producer.Publish([]byte(orderID), body)

	logger := logctx.FromOr(ctx, r.log)
	logger.Debug("order_event_relayed",
		observability.F("event", e.EventName()),
		observability.F("order_id", orderID),
	)
	return nil
}

func correlationID(e outbox.Event) string {
	switch evt := e.(type) {
	case domorder.OrderCreatedEvent:
		return evt.OrderID
	case domorder.OrderCancelledEvent:
		return evt.OrderID
	case domorder.OrderStatusChangedEvent:
		return evt.OrderID
	}
	return ""
}
