package social

import (
	"context"
	"fmt"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	domsocial "github.com/corpz/marketplace/internal/domain/social"
	domuser "github.com/corpz/marketplace/internal/domain/user"
	"github.com/corpz/marketplace/internal/observability"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	favorites domsocial.FavoriteRepository
	follows   domsocial.FollowRepository
	items     domitem.Repository
	users     domuser.Repository
	idGen     IDGenerator
	log       observability.Logger
}

func NewService(
	favorites domsocial.FavoriteRepository,
	follows domsocial.FollowRepository,
	items domitem.Repository,
	users domuser.Repository,
	idGen IDGenerator,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		favorites: favorites,
		follows:   follows,
		items:     items,
		users:     users,
		idGen:     idGen,
		log:       tel.Logger().With(observability.F("service", "social")),
	}
}

// Favorite marks an item. Repeating it is a no-op.
func (s *Service) Favorite(ctx context.Context, userID, itemID string) (*domsocial.Favorite, error) {
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	stored, err := s.favorites.Upsert(ctx, domsocial.NewFavorite(s.idGen.NewID(), userID, itemID))
	if err != nil {
		return nil, fmt.Errorf("social: upsert favorite: %w", err)
	}
	return stored, nil
}

func (s *Service) Unfavorite(ctx context.Context, userID, itemID string) error {
	return s.favorites.Delete(ctx, userID, itemID)
}

func (s *Service) ListFavorites(ctx context.Context, userID string) ([]*domsocial.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// Follow creates the directed edge follower -> followee. Repeating it is a
// no-op; following yourself is rejected.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) (*domsocial.Follow, error) {
	if _, err := s.users.Get(ctx, followeeID); err != nil {
		return nil, err
	}
	edge, err := domsocial.NewFollow(s.idGen.NewID(), followerID, followeeID)
	if err != nil {
		return nil, err
	}
	stored, err := s.follows.Upsert(ctx, edge)
	if err != nil {
		return nil, fmt.Errorf("social: upsert follow: %w", err)
	}
	return stored, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.follows.Delete(ctx, followerID, followeeID)
}

func (s *Service) ListFollowing(ctx context.Context, followerID string) ([]*domsocial.Follow, error) {
	return s.follows.ListFollowing(ctx, followerID)
}

func (s *Service) ListFollowers(ctx context.Context, followeeID string) ([]*domsocial.Follow, error) {
	return s.follows.ListFollowers(ctx, followeeID)
}
