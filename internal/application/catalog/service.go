// Package catalog holds the seller-facing listing operations and the public
// browse queries.
package catalog

import (
	"context"
	"fmt"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	"github.com/corpz/marketplace/internal/observability"
)

// IDGenerator mints listing identifiers.
type IDGenerator interface {
	NewID() string
}

type Service struct {
	items domitem.Repository
	idGen IDGenerator
	log   observability.Logger
}

func NewService(items domitem.Repository, idGen IDGenerator, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		items: items,
		idGen: idGen,
		log:   tel.Logger().With(observability.F("service", "catalog")),
	}
}

type ListingInput struct {
	Title       string
	Description string
	Price       int64
	Stock       int
	Category    string
}

// CreateListing publishes a new listing owned by sellerID.
func (s *Service) CreateListing(ctx context.Context, sellerID string, in ListingInput) (*domitem.Item, error) {
	entity, err := domitem.New(s.idGen.NewID(), sellerID, in.Title, in.Description, in.Price, in.Stock, in.Category)
	if err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("catalog: create listing: %w", err)
	}
	s.log.Info("listing_created",
		observability.F("item_id", entity.ID),
		observability.F("seller_id", sellerID),
		observability.F("price_cents", entity.Price),
		observability.F("stock", entity.Stock),
	)
	return entity, nil
}

// UpdateListing applies a seller edit. Only the listing owner may edit.
func (s *Service) UpdateListing(ctx context.Context, sellerID, itemID string, in ListingInput) (*domitem.Item, error) {
	entity, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := entity.Edit(sellerID, in.Title, in.Description, in.Price, in.Stock, in.Category); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("catalog: update listing: %w", err)
	}
	return entity, nil
}

// DeleteListing removes a listing. Only the listing owner may delete.
func (s *Service) DeleteListing(ctx context.Context, sellerID, itemID string) error {
	entity, err := s.items.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if entity.SellerID != sellerID {
		return domitem.ErrNotSeller
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("catalog: delete listing: %w", err)
	}
	s.log.Info("listing_deleted",
		observability.F("item_id", itemID),
		observability.F("seller_id", sellerID),
	)
	return nil
}

// GetListing returns a single listing by id.
func (s *Service) GetListing(ctx context.Context, itemID string) (*domitem.Item, error) {
	return s.items.Get(ctx, itemID)
}

// ListBySeller returns a seller's listings, newest first.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]*domitem.Item, error) {
	return s.items.ListBySeller(ctx, sellerID)
}

// ListByCategory returns listings in a category, newest first.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]*domitem.Item, error) {
	return s.items.ListByCategory(ctx, category)
}
