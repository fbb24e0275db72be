package order

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrConflict          = errors.New("order: already exists")
	ErrInvalidQuantity   = errors.New("order: quantity must be greater than zero")
	ErrInvalidAmount     = errors.New("order: amount must be greater than zero")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrNotParty          = errors.New("order: caller is not a party to this order")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// validNext enumerates the legal status edges. Status advances
// monotonically; pending -> cancelled is the only reversal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Shipping holds the delivery details captured at checkout.
type Shipping struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Phone      string
}

// Order is a ledger entry for a purchase. Amount is captured at creation
// time (item price * quantity) and never re-derived.
type Order struct {
	ID        string
	ItemID    string
	BuyerID   string
	SellerID  string
	Amount    int64
	Quantity  int
	Status    Status
	Shipping  Shipping
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, itemID, buyerID, sellerID string, quantity int, amount int64, shipping Shipping) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	return &Order{
		ID:        id,
		ItemID:    itemID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		Amount:    amount,
		Quantity:  quantity,
		Status:    StatusPending,
		Shipping:  shipping,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TransitionTo moves the order along a legal edge of the status table.
func (o *Order) TransitionTo(next Status) error {
	if !CanTransition(o.Status, next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.touch()
	return nil
}

// Cancel is the pending -> cancelled reversal. The caller is responsible
// for restoring reserved stock.
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

func (o *Order) IsParty(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
