package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	domoutbox "github.com/corpz/marketplace/internal/domain/outbox"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	"github.com/corpz/marketplace/internal/observability"
	"github.com/corpz/marketplace/internal/observability/logctx"
)

const (
	checkoutService     = "checkout-service"
	useCasePlaceOrder   = "checkout.place_order"
	spanPrefix          = "UC."
	gatewayPeer         = "payment_gateway"
	reasonRaceLost      = "inventory_race_lost"
	reasonBuyerCancel   = "buyer_cancelled"
	eventPublishTimeout = 300 * time.Millisecond
)

// PlaceOrderUseCase turns a purchase request into a fully consistent
// order + payment + stock decrement, or no observable partial state.
//
// Sequencing: read item -> charge gateway (at most once) -> insert pending
// order -> conditional stock decrement -> insert payment record. A failed
// conditional decrement cancels the order and flags the charge for refund.
type PlaceOrderUseCase struct {
	items    domitem.Repository
	orders   domorder.Repository
	payments dompayment.Repository
	gateway  dompayment.Gateway

	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	tel         observability.Observability

	log           observability.Logger
	reqCounter    observability.Counter
	durHistogram  observability.Histogram
	gwCounter     observability.Counter
	gwHistogram   observability.Histogram
	raceCounter   observability.Counter
	refundCounter observability.Counter
}

func NewPlaceOrderUseCase(
	items domitem.Repository,
	orders domorder.Repository,
	payments dompayment.Repository,
	gateway dompayment.Gateway,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLog := tel.Logger().With(observability.F("service", checkoutService))
	metrics := tel.Metrics()

	return &PlaceOrderUseCase{
		items:         items,
		orders:        orders,
		payments:      payments,
		gateway:       gateway,
		idGenerator:   idGen,
		publisher:     publisher,
		tel:           tel,
		log:           baseLog,
		reqCounter:    metrics.Counter(observability.MUsecaseRequests),
		durHistogram:  metrics.Histogram(observability.MUsecaseDuration),
		gwCounter:     metrics.Counter(observability.MGatewayRequests),
		gwHistogram:   metrics.Histogram(observability.MGatewayDuration),
		raceCounter:   metrics.Counter(observability.MInventoryRaceLost),
		refundCounter: metrics.Counter(observability.MRefundsFlagged),
	}
}

type PlaceOrderInput struct {
	BuyerID  string
	ItemID   string
	Quantity int
	Method   dompayment.Method
	Shipping domorder.Shipping
}

type PlaceOrderResult struct {
	Order   *domorder.Order
	Payment *dompayment.Record
}

// Execute runs the checkout workflow. The gateway is invoked at most once;
// nothing with side effects is retried.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCasePlaceOrder),
		observability.F("buyer_id", cmd.BuyerID),
		observability.F("item_id", cmd.ItemID),
		observability.F("quantity", cmd.Quantity),
	)

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("checkout.item_id", cmd.ItemID),
		attribute.Int("checkout.quantity", cmd.Quantity),
		attribute.String("checkout.method", string(cmd.Method)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

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
			observability.L("use_case", useCasePlaceOrder),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat,
			observability.L("use_case", useCasePlaceOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	// Validation happens before any remote call.
	if cmd.BuyerID == "" {
		outcome, statusText = "error", "BUYER_ID_REQUIRED"
		return nil, invalid("buyer id is required")
	}
	if cmd.ItemID == "" {
		outcome, statusText = "error", "ITEM_ID_REQUIRED"
		return nil, invalid("item id is required")
	}
	if cmd.Quantity < 1 {
		outcome, statusText = "error", "QUANTITY_INVALID"
		return nil, invalid("quantity must be at least 1")
	}
	if !cmd.Method.Valid() {
		outcome, statusText = "error", "METHOD_UNSUPPORTED"
		return nil, invalid("unsupported payment method %q", cmd.Method)
	}

	// Step 1: read the item and its current stock.
	item, err := uc.items.Get(ctx, cmd.ItemID)
	if err != nil {
		if errors.Is(err, domitem.ErrNotFound) {
			outcome, statusText = "error", "ITEM_NOT_FOUND"
			return nil, ErrItemNotFound
		}
		outcome, statusText = "error", "ITEM_LOOKUP_FAILED"
		return nil, fmt.Errorf("checkout: load item: %w", err)
	}
	if item.SellerID == cmd.BuyerID {
		outcome, statusText = "error", "OWN_ITEM"
		return nil, ErrOwnItem
	}
	if !item.HasStock(cmd.Quantity) {
		outcome, statusText = "error", "OUT_OF_STOCK"
		return nil, ErrOutOfStock
	}

	// Step 2: capture the amount at the current listed price.
	amount := item.Price * int64(cmd.Quantity)
	span.SetAttributes(attribute.Int64("checkout.amount_cents", amount))

	// Step 3: charge the gateway, exactly once for this attempt.
	charge, err := uc.charge(ctx, dompayment.ChargeRequest{
		PayerID: cmd.BuyerID,
		Amount:  amount,
		Method:  cmd.Method,
	})
	if err != nil {
		var declined *dompayment.DeclinedError
		if errors.As(err, &declined) {
			outcome, statusText = "error", "PAYMENT_DECLINED"
			return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, declined.Reason)
		}
		outcome, statusText = "error", "GATEWAY_FAILED"
		return nil, fmt.Errorf("checkout: charge: %w", err)
	}
	span.AddEvent("payment.charged",
		trace.WithAttributes(attribute.String("payment.transaction_id", charge.TransactionID)),
	)

	// Step 4: record the order as pending with the captured amount.
	entity, err := domorder.New(uc.idGenerator.NewID(), item.ID, cmd.BuyerID, item.SellerID, cmd.Quantity, amount, cmd.Shipping)
	if err != nil {
		outcome, statusText = "error", "DOMAIN_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("checkout: construct order: %w", err)
	}
	if err := uc.orders.Insert(ctx, entity); err != nil {
		outcome, statusText = "error", "ORDER_INSERT_FAILED"
		uc.flagRefund(ctx, logger, entity, charge.TransactionID, "order_insert_failed")
		return nil, fmt.Errorf("checkout: insert order: %w", err)
	}

	// Step 5: conditional decrement. Exactly one of two racing checkouts
	// commits; the loser rolls back here.
	committed, err := uc.items.DecrementStock(ctx, item.ID, cmd.Quantity)
	if err != nil {
		outcome, statusText = "error", "STOCK_DECREMENT_FAILED"
		uc.rollback(ctx, logger, entity, cmd.Method, charge.TransactionID, reasonRaceLost)
		return nil, fmt.Errorf("checkout: decrement stock: %w", err)
	}
	if !committed {
		outcome, statusText = "error", "INVENTORY_RACE_LOST"
		uc.raceCounter.Add(1, observability.L("item_id", item.ID))
		span.AddEvent("checkout.inventory_race_lost")
		uc.rollback(ctx, logger, entity, cmd.Method, charge.TransactionID, reasonRaceLost)
		return nil, ErrInventoryRaceLost
	}

	// Step 6: record the payment against the created order.
	record, err := dompayment.NewRecord(
		uc.idGenerator.NewID(), entity.ID, cmd.BuyerID, amount, cmd.Method,
		charge.TransactionID, dompayment.StatusCompleted,
	)
	if err != nil {
		outcome, statusText = "error", "PAYMENT_RECORD_INVALID"
		return nil, fmt.Errorf("checkout: construct payment record: %w", err)
	}
	if err := uc.payments.Insert(ctx, record); err != nil {
		// The order is consistent; a missing payment row is a books
		// problem, not a buyer-facing failure. Raise it on the operator
		// queue so reconciliation does not depend on someone reading logs.
		logger.Error("payment_record_insert_failed",
			observability.F("order_id", entity.ID),
			observability.F("transaction_id", charge.TransactionID),
			observability.F("error", err),
		)
		uc.flagRefund(ctx, logger, entity, charge.TransactionID, "payment_record_missing")
	}

	uc.publish(ctx, logger, domorder.NewOrderCreatedEvent(entity))

	span.SetAttributes(attribute.String("order.id", entity.ID))
	span.AddEvent("order.created")

	return &PlaceOrderResult{Order: entity, Payment: record}, nil
}

// charge wraps the single gateway call with external-peer metrics.
func (uc *PlaceOrderUseCase) charge(ctx context.Context, req dompayment.ChargeRequest) (*dompayment.ChargeResult, error) {
	start := time.Now()
	result, err := uc.gateway.Charge(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = "error"
		var declined *dompayment.DeclinedError
		if errors.As(err, &declined) {
			outcome = "declined"
		}
	}
	uc.gwCounter.Add(1,
		observability.L("peer", gatewayPeer),
		observability.L("method", string(req.Method)),
		observability.L("outcome", outcome),
	)
	uc.gwHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", gatewayPeer),
		observability.L("method", string(req.Method)),
	)
	return result, err
}

// rollback cancels the just-created order after a lost race, keeps the
// charge on the books as refund_required, and raises the refund condition.
func (uc *PlaceOrderUseCase) rollback(ctx context.Context, logger observability.Logger, entity *domorder.Order, method dompayment.Method, transactionID, reason string) {
	if err := entity.Cancel(); err != nil {
		logger.Error("rollback_cancel_failed",
			observability.F("order_id", entity.ID),
			observability.F("error", err),
		)
	} else if committed, err := uc.orders.UpdateStatusIf(ctx, entity.ID, domorder.StatusPending, domorder.StatusCancelled); err != nil || !committed {
		logger.Error("rollback_update_failed",
			observability.F("order_id", entity.ID),
			observability.F("committed", committed),
			observability.F("error", err),
		)
	}

	record, err := dompayment.NewRecord(
		uc.idGenerator.NewID(), entity.ID, entity.BuyerID, entity.Amount, method,
		transactionID, dompayment.StatusRefundRequired,
	)
	if err == nil {
		if insertErr := uc.payments.Insert(ctx, record); insertErr != nil {
			logger.Error("refund_record_insert_failed",
				observability.F("order_id", entity.ID),
				observability.F("error", insertErr),
			)
		}
	}

	uc.flagRefund(ctx, logger, entity, transactionID, reason)
	uc.publish(ctx, logger, domorder.NewOrderCancelledEvent(entity, reason))
}

// flagRefund raises the refund-required condition. It is surfaced to an
// operator queue and never silently dropped.
func (uc *PlaceOrderUseCase) flagRefund(ctx context.Context, logger observability.Logger, entity *domorder.Order, transactionID, reason string) {
	uc.refundCounter.Add(1, observability.L("reason", reason))
	logger.Warn("refund_required",
		observability.F("order_id", entity.ID),
		observability.F("transaction_id", transactionID),
		observability.F("amount_cents", entity.Amount),
		observability.F("reason", reason),
	)
	uc.publish(ctx, logger, domorder.NewRefundRequiredEvent(entity, transactionID, reason))
}

func (uc *PlaceOrderUseCase) publish(ctx context.Context, logger observability.Logger, e domoutbox.Event) {
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
