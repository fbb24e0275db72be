package item

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("item: not found")
	ErrInvalidTitle      = errors.New("item: title must be at least 3 characters")
	ErrInvalidDesc       = errors.New("item: description must be at least 10 characters")
	ErrInvalidPrice      = errors.New("item: price must be between 1 and 100000000 cents")
	ErrInvalidStock      = errors.New("item: stock must be between 0 and 10000")
	ErrInvalidQuantity   = errors.New("item: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("item: insufficient stock")
	ErrNotSeller         = errors.New("item: only the listing seller may modify it")
)

const (
	MinTitleLen = 3
	MinDescLen  = 10
	MaxPrice    = 100_000_000 // cents
	MaxStock    = 10_000
)

// Item is a marketplace listing. Price is captured in cents and immutable
// once listed; stock is the only field mutated outside seller edits.
type Item struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	Price       int64
	Stock       int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(id, sellerID, title, description string, price int64, stock int, category string) (*Item, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if len(title) < MinTitleLen {
		return nil, ErrInvalidTitle
	}
	if len(description) < MinDescLen {
		return nil, ErrInvalidDesc
	}
	if price <= 0 || price > MaxPrice {
		return nil, ErrInvalidPrice
	}
	if stock < 0 || stock > MaxStock {
		return nil, ErrInvalidStock
	}
	if category == "" {
		category = "Other"
	}

	now := time.Now().UTC()
	return &Item{
		ID:          id,
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Edit applies seller-initiated changes. Price edits are allowed for the
// seller; checkout captures the price at order time so in-flight orders are
// unaffected.
func (i *Item) Edit(sellerID, title, description string, price int64, stock int, category string) error {
	if sellerID != i.SellerID {
		return ErrNotSeller
	}
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if len(title) < MinTitleLen {
		return ErrInvalidTitle
	}
	if len(description) < MinDescLen {
		return ErrInvalidDesc
	}
	if price <= 0 || price > MaxPrice {
		return ErrInvalidPrice
	}
	if stock < 0 || stock > MaxStock {
		return ErrInvalidStock
	}
	i.Title = title
	i.Description = description
	i.Price = price
	i.Stock = stock
	if category != "" {
		i.Category = category
	}
	i.touch()
	return nil
}

// HasStock reports whether the listing can cover quantity at read time.
// It is advisory only; the repository's conditional decrement is the
// authoritative guard.
func (i *Item) HasStock(quantity int) bool {
	return quantity > 0 && i.Stock >= quantity
}

func (i *Item) touch() {
	i.UpdatedAt = time.Now().UTC()
}
