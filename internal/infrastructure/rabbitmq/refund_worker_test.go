package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	"github.com/corpz/marketplace/internal/domain/outbox"
)

type fakeSubscriber struct {
	handlers map[string]outbox.Handler
}

func (s *fakeSubscriber) Subscribe(eventName string, h outbox.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]outbox.Handler)
	}
	s.handlers[eventName] = h
}

type fakeSink struct {
	tickets []RefundTicket
	err     error
}

func (s *fakeSink) Publish(_ context.Context, t RefundTicket) error {
	if s.err != nil {
		return s.err
	}
	s.tickets = append(s.tickets, t)
	return nil
}

func refundEvent() domorder.RefundRequiredEvent {
	return domorder.RefundRequiredEvent{
		OrderID:       "o-1",
		BuyerID:       "buyer-1",
		Amount:        500_00,
		TransactionID: "GCASH_1_000001",
		Reason:        "inventory_race_lost",
		OccurredAt:    time.Now().UTC(),
	}
}

func TestRefundWorkerForwardsTicket(t *testing.T) {
	sub := &fakeSubscriber{}
	sink := &fakeSink{}
	NewRefundWorker(sink, sub, nil).Start()

	h, ok := sub.handlers["order.refund_required"]
	if !ok {
		t.Fatal("worker did not subscribe to order.refund_required")
	}
	if err := h(context.Background(), refundEvent()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sink.tickets) != 1 {
		t.Fatalf("tickets = %d, want 1", len(sink.tickets))
	}
	got := sink.tickets[0]
	if got.OrderID != "o-1" || got.AmountCents != 500_00 || got.TransactionID != "GCASH_1_000001" {
		t.Errorf("ticket = %+v", got)
	}
}

func TestRefundWorkerSurfacesSinkError(t *testing.T) {
	sub := &fakeSubscriber{}
	sinkErr := errors.New("broker down")
	NewRefundWorker(&fakeSink{err: sinkErr}, sub, nil).Start()

	err := sub.handlers["order.refund_required"](context.Background(), refundEvent())
	if !errors.Is(err, sinkErr) {
		t.Errorf("got %v, want sink error propagated", err)
	}
}

func TestRefundWorkerIgnoresOtherEvents(t *testing.T) {
	sub := &fakeSubscriber{}
	sink := &fakeSink{}
	NewRefundWorker(sink, sub, nil).Start()

	o, err := domorder.New("o-2", "i-1", "b", "s", 1, 100, domorder.Shipping{})
	if err != nil {
		t.Fatal(err)
	}
	if err := sub.handlers["order.refund_required"](context.Background(), domorder.NewOrderCreatedEvent(o)); err != nil {
		t.Errorf("foreign event type must be a no-op, got %v", err)
	}
	if len(sink.tickets) != 0 {
		t.Errorf("tickets = %d, want 0", len(sink.tickets))
	}
}
