package cart

import (
	"context"
	"errors"
	"fmt"

	domcart "github.com/corpz/marketplace/internal/domain/cart"
	domitem "github.com/corpz/marketplace/internal/domain/item"
	"github.com/corpz/marketplace/internal/observability"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	lines domcart.Repository
	items domitem.Repository
	idGen IDGenerator
	log   observability.Logger
}

func NewService(lines domcart.Repository, items domitem.Repository, idGen IDGenerator, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		lines: lines,
		items: items,
		idGen: idGen,
		log:   tel.Logger().With(observability.F("service", "cart")),
	}
}

// Add puts an item in the user's cart. A repeated add for the same item
// folds into the existing line's quantity.
func (s *Service) Add(ctx context.Context, userID, itemID string, quantity int) (*domcart.Line, error) {
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	line, err := domcart.NewLine(s.idGen.NewID(), userID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	stored, err := s.lines.Upsert(ctx, line)
	if err != nil {
		return nil, fmt.Errorf("cart: upsert line: %w", err)
	}
	return stored, nil
}

// SetQuantity replaces the quantity on an existing line.
func (s *Service) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (*domcart.Line, error) {
	line, err := s.lines.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := line.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := s.lines.Update(ctx, line); err != nil {
		return nil, fmt.Errorf("cart: update line: %w", err)
	}
	return line, nil
}

// List returns the user's cart lines.
func (s *Service) List(ctx context.Context, userID string) ([]*domcart.Line, error) {
	return s.lines.ListByUser(ctx, userID)
}

// Remove deletes a single line. Removing an absent line is a no-op.
func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	if err := s.lines.Delete(ctx, userID, itemID); err != nil && !errors.Is(err, domcart.ErrNotFound) {
		return fmt.Errorf("cart: delete line: %w", err)
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.lines.Clear(ctx, userID)
}
