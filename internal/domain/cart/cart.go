package cart

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("cart: line not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
)

// Line associates a user with an item they intend to buy. At most one line
// exists per (user, item); adding the same item again grows the quantity.
type Line struct {
	ID        string
	UserID    string
	ItemID    string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewLine(id, userID, itemID string, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	now := time.Now().UTC()
	return &Line{
		ID:        id,
		UserID:    userID,
		ItemID:    itemID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l *Line) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	l.Quantity = quantity
	l.UpdatedAt = time.Now().UTC()
	return nil
}
