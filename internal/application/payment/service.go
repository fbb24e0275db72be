package payment

import (
	"context"
	"errors"
	"fmt"

	domorder "github.com/corpz/marketplace/internal/domain/order"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	"github.com/corpz/marketplace/internal/observability"
)

var ErrNotParty = errors.New("payment: caller is not a party to the order")

// Service answers read queries over payment records.
type Service struct {
	payments dompayment.Repository
	orders   domorder.Repository
	log      observability.Logger
}

func NewService(payments dompayment.Repository, orders domorder.Repository, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		payments: payments,
		orders:   orders,
		log:      tel.Logger().With(observability.F("service", "payment")),
	}
}

// History lists the caller's own payment records, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]*dompayment.Record, error) {
	records, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("payment: list by user: %w", err)
	}
	return records, nil
}

// ForOrder returns the record tied to an order. Only the order's buyer or
// seller may see it.
func (s *Service) ForOrder(ctx context.Context, callerID, orderID string) (*dompayment.Record, error) {
	entity, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !entity.IsParty(callerID) {
		return nil, ErrNotParty
	}
	record, err := s.payments.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Methods lists the accepted payment instruments.
func (s *Service) Methods() []dompayment.Method {
	return dompayment.Methods()
}
