package order

import "time"

// OrderCreatedEvent is emitted after checkout fully commits: payment
// captured, order recorded, stock decremented.
type OrderCreatedEvent struct {
	OrderID    string
	ItemID     string
	BuyerID    string
	SellerID   string
	Quantity   int
	Amount     int64
	OccurredAt time.Time
}

func (OrderCreatedEvent) EventName() string { return "order.created" }

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:    o.ID,
		ItemID:     o.ItemID,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		Quantity:   o.Quantity,
		Amount:     o.Amount,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted for both buyer cancellations and
// checkout rollbacks after a lost inventory race.
type OrderCancelledEvent struct {
	OrderID    string
	ItemID     string
	Quantity   int
	Reason     string
	OccurredAt time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func NewOrderCancelledEvent(o *Order, reason string) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    o.ID,
		ItemID:     o.ItemID,
		Quantity:   o.Quantity,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderStatusChangedEvent is emitted when a party advances the status table.
type OrderStatusChangedEvent struct {
	OrderID    string
	From       Status
	To         Status
	OccurredAt time.Time
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

func NewOrderStatusChangedEvent(o *Order, from Status) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		OrderID:    o.ID,
		From:       from,
		To:         o.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// RefundRequiredEvent flags a completed charge with no fulfilled order.
// It must reach an operator queue; it is never dropped silently.
type RefundRequiredEvent struct {
	OrderID       string
	BuyerID       string
	Amount        int64
	TransactionID string
	Reason        string
	OccurredAt    time.Time
}

func (RefundRequiredEvent) EventName() string { return "order.refund_required" }

func NewRefundRequiredEvent(o *Order, transactionID, reason string) RefundRequiredEvent {
	return RefundRequiredEvent{
		OrderID:       o.ID,
		BuyerID:       o.BuyerID,
		Amount:        o.Amount,
		TransactionID: transactionID,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
}
