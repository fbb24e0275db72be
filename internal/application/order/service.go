// Package order provides the post-checkout order operations: listing a
// user's purchases and sales, advancing the status table, and seller stats.
// Cancellation lives in the checkout package because it touches stock and
// refunds.
package order

import (
	"context"
	"fmt"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	domoutbox "github.com/corpz/marketplace/internal/domain/outbox"
	"github.com/corpz/marketplace/internal/observability"
)

type Service struct {
	orders    domorder.Repository
	publisher domoutbox.Publisher
	log       observability.Logger
}

func NewService(orders domorder.Repository, publisher domoutbox.Publisher, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		orders:    orders,
		publisher: publisher,
		log:       tel.Logger().With(observability.F("service", "order")),
	}
}

// Get returns an order visible to the caller. Only a party to the order may
// read it.
func (s *Service) Get(ctx context.Context, callerID, orderID string) (*domorder.Order, error) {
	entity, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !entity.IsParty(callerID) {
		return nil, domorder.ErrNotParty
	}
	return entity, nil
}

// ListPurchases returns the caller's orders as buyer, newest first.
func (s *Service) ListPurchases(ctx context.Context, buyerID string) ([]*domorder.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

// ListSales returns the caller's orders as seller, newest first.
func (s *Service) ListSales(ctx context.Context, sellerID string) ([]*domorder.Order, error) {
	return s.orders.ListBySeller(ctx, sellerID)
}

// UpdateStatus advances an order along the status table. The seller drives
// confirmed and shipped; the buyer acknowledges delivered. Cancellation is
// not reachable here.
func (s *Service) UpdateStatus(ctx context.Context, callerID, orderID string, next domorder.Status) (*domorder.Order, error) {
	entity, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !entity.IsParty(callerID) {
		return nil, domorder.ErrNotParty
	}

	switch next {
	case domorder.StatusConfirmed, domorder.StatusShipped:
		if callerID != entity.SellerID {
			return nil, domorder.ErrNotParty
		}
	case domorder.StatusDelivered:
		if callerID != entity.BuyerID {
			return nil, domorder.ErrNotParty
		}
	default:
		return nil, domorder.ErrInvalidTransition
	}

	from := entity.Status
	if err := entity.TransitionTo(next); err != nil {
		return nil, err
	}
	// Conditional on the status read above: a concurrent transition (a
	// buyer cancelling a pending order while the seller confirms it) makes
	// exactly one writer win.
	committed, err := s.orders.UpdateStatusIf(ctx, entity.ID, from, next)
	if err != nil {
		return nil, fmt.Errorf("order: update status: %w", err)
	}
	if !committed {
		return nil, domorder.ErrInvalidTransition
	}

	s.log.Info("order_status_changed",
		observability.F("order_id", entity.ID),
		observability.F("from", string(from)),
		observability.F("to", string(next)),
	)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, domorder.NewOrderStatusChangedEvent(entity, from)); err != nil {
			s.log.Warn("event_publish_failed",
				observability.F("event", "order.status_changed"),
				observability.F("error", err),
			)
		}
	}
	return entity, nil
}

// Stats aggregates a seller's book of orders.
type Stats struct {
	TotalSales     int   `json:"total_sales"`
	TotalRevenue   int64 `json:"total_revenue_cents"`
	PendingCount   int   `json:"pending_count"`
	DeliveredCount int   `json:"delivered_count"`
}

// SellerStats sums sales and revenue over the seller's non-cancelled orders.
func (s *Service) SellerStats(ctx context.Context, sellerID string) (*Stats, error) {
	sales, err := s.orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	stats := &Stats{}
	for _, o := range sales {
		if o.Status == domorder.StatusCancelled {
			continue
		}
		stats.TotalSales++
		stats.TotalRevenue += o.Amount
		switch o.Status {
		case domorder.StatusPending:
			stats.PendingCount++
		case domorder.StatusDelivered:
			stats.DeliveredCount++
		}
	}
	return stats, nil
}
