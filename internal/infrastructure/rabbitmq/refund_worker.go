package rabbitmq

import (
	"context"
	"time"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	"github.com/corpz/marketplace/internal/domain/outbox"
	"github.com/corpz/marketplace/internal/observability"
	"github.com/corpz/marketplace/internal/observability/logctx"
)

// RefundSink accepts refund tickets. Satisfied by *Publisher; tests use a
// recording fake.
type RefundSink interface {
	Publish(ctx context.Context, ticket RefundTicket) error
}

// RefundWorker forwards refund-required events to the ops queue. A failed
// forward is an error, not a warning: losing one means a charged buyer is
// never made whole.
type RefundWorker struct {
	sink       RefundSink
	subscriber outbox.Subscriber
	log        observability.Logger
}

func NewRefundWorker(sink RefundSink, subscriber outbox.Subscriber, logger observability.Logger) *RefundWorker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &RefundWorker{
		sink:       sink,
		subscriber: subscriber,
		log:        logger.With(observability.F("component", "refund_worker")),
	}
}

func (w *RefundWorker) Start() {
	if w.subscriber == nil || w.sink == nil {
		return
	}
	w.subscriber.Subscribe(domorder.RefundRequiredEvent{}.EventName(), w.handle)
}

func (w *RefundWorker) handle(ctx context.Context, e outbox.Event) error {
	evt, ok := e.(domorder.RefundRequiredEvent)
	if !ok {
		return nil
	}

	logger := logctx.FromOr(ctx, w.log)
	ticket := RefundTicket{
		OrderID:       evt.OrderID,
		BuyerID:       evt.BuyerID,
		AmountCents:   evt.Amount,
		TransactionID: evt.TransactionID,
		Reason:        evt.Reason,
		OccurredAt:    evt.OccurredAt.Format(time.RFC3339),
	}

	if err := w.sink.Publish(ctx, ticket); err != nil {
		logger.Error("refund_ticket_publish_failed",
			observability.F("order_id", evt.OrderID),
			observability.F("transaction_id", evt.TransactionID),
			observability.F("error", err),
		)
		return err
	}

	logger.Info("refund_ticket_enqueued",
		observability.F("order_id", evt.OrderID),
		observability.F("amount_cents", evt.Amount),
	)
	return nil
}
