package social

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("social: not found")
	ErrSelfFollow = errors.New("social: a user cannot follow themselves")
)

// Favorite marks an item a user wants to keep an eye on. At most one
// favorite exists per (user, item).
type Favorite struct {
	ID        string
	UserID    string
	ItemID    string
	CreatedAt time.Time
}

func NewFavorite(id, userID, itemID string) *Favorite {
	return &Favorite{
		ID:        id,
		UserID:    userID,
		ItemID:    itemID,
		CreatedAt: time.Now().UTC(),
	}
}

// Follow is a directed edge between users. At most one edge exists per
// (follower, followee); self-edges are forbidden.
type Follow struct {
	ID         string
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}

func NewFollow(id, followerID, followeeID string) (*Follow, error) {
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}
	return &Follow{
		ID:         id,
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
