package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	domoutbox "github.com/corpz/marketplace/internal/domain/outbox"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	"github.com/corpz/marketplace/internal/observability"
	"github.com/corpz/marketplace/internal/observability/logctx"
)

const useCaseCancelOrder = "checkout.cancel_order"

// CancelOrderUseCase is the pending -> cancelled reversal. It restores the
// reserved stock (a plain increment, mirroring the checkout decrement) and
// flags the captured charge for refund.
type CancelOrderUseCase struct {
	items    domitem.Repository
	orders   domorder.Repository
	payments dompayment.Repository

	publisher domoutbox.Publisher
	tel       observability.Observability

	log           observability.Logger
	reqCounter    observability.Counter
	durHistogram  observability.Histogram
	refundCounter observability.Counter
}

func NewCancelOrderUseCase(
	items domitem.Repository,
	orders domorder.Repository,
	payments dompayment.Repository,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *CancelOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(observability.F("service", checkoutService))
	metrics := tel.Metrics()

	return &CancelOrderUseCase{
		items:         items,
		orders:        orders,
		payments:      payments,
		publisher:     publisher,
		tel:           tel,
		log:           baseLog,
		reqCounter:    metrics.Counter(observability.MUsecaseRequests),
		durHistogram:  metrics.Histogram(observability.MUsecaseDuration),
		refundCounter: metrics.Counter(observability.MRefundsFlagged),
	}
}

type CancelOrderInput struct {
	OrderID string
	BuyerID string
}

// Execute cancels a pending order on behalf of its buyer.
func (uc *CancelOrderUseCase) Execute(ctx context.Context, cmd CancelOrderInput) (_ *domorder.Order, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCaseCancelOrder),
		observability.F("order_id", cmd.OrderID),
	)

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"CancelOrder",
		attribute.String("use_case", useCaseCancelOrder),
		attribute.String("order.id", cmd.OrderID),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}
		uc.reqCounter.Add(1,
			observability.L("use_case", useCaseCancelOrder),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(time.Since(start).Seconds(),
			observability.L("use_case", useCaseCancelOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if cmd.OrderID == "" {
		outcome, statusText = "error", "ORDER_ID_REQUIRED"
		return nil, invalid("order id is required")
	}
	if cmd.BuyerID == "" {
		outcome, statusText = "error", "BUYER_ID_REQUIRED"
		return nil, invalid("buyer id is required")
	}

	entity, err := uc.orders.Get(ctx, cmd.OrderID)
	if err != nil {
		outcome, statusText = "error", "ORDER_LOOKUP_FAILED"
		return nil, err
	}
	if entity.BuyerID != cmd.BuyerID {
		outcome, statusText = "error", "NOT_BUYER"
		return nil, ErrNotBuyer
	}

	if err := entity.Cancel(); err != nil {
		outcome, statusText = "error", "INVALID_TRANSITION"
		return nil, err
	}
	// Conditional write: of two racing cancellations only one commits, so
	// the stock below is restored exactly once.
	committed, err := uc.orders.UpdateStatusIf(ctx, entity.ID, domorder.StatusPending, domorder.StatusCancelled)
	if err != nil {
		outcome, statusText = "error", "ORDER_UPDATE_FAILED"
		return nil, fmt.Errorf("checkout: update order: %w", err)
	}
	if !committed {
		outcome, statusText = "error", "INVALID_TRANSITION"
		return nil, domorder.ErrInvalidTransition
	}

	// Restoring stock is a plain increment; it cannot break non-negativity.
	if err := uc.items.IncrementStock(ctx, entity.ItemID, entity.Quantity); err != nil {
		logger.Error("stock_restore_failed",
			observability.F("item_id", entity.ItemID),
			observability.F("quantity", entity.Quantity),
			observability.F("error", err),
		)
	}

	// The checkout charge was captured; cancelling the order raises the
	// refund obligation.
	if record, lookupErr := uc.payments.GetByOrder(ctx, entity.ID); lookupErr == nil && record.Status == dompayment.StatusCompleted {
		uc.refundCounter.Add(1, observability.L("reason", reasonBuyerCancel))
		logger.Warn("refund_required",
			observability.F("order_id", entity.ID),
			observability.F("transaction_id", record.Reference),
			observability.F("amount_cents", record.Amount),
			observability.F("reason", reasonBuyerCancel),
		)
		uc.publishEvent(ctx, logger, domorder.NewRefundRequiredEvent(entity, record.Reference, reasonBuyerCancel))
	} else if lookupErr != nil && !errors.Is(lookupErr, dompayment.ErrNotFound) {
		logger.Error("payment_lookup_failed",
			observability.F("order_id", entity.ID),
			observability.F("error", lookupErr),
		)
	}

	uc.publishEvent(ctx, logger, domorder.NewOrderCancelledEvent(entity, reasonBuyerCancel))

	span.AddEvent("order.cancelled")
	return entity, nil
}

func (uc *CancelOrderUseCase) publishEvent(ctx context.Context, logger observability.Logger, e domoutbox.Event) {
	if uc.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := uc.publisher.Publish(pubCtx, e); err != nil {
		logger.Warn("event_publish_failed",
			observability.F("event", e.EventName()),
			observability.F("error", err),
		)
	}
}
