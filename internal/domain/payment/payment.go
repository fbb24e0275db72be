package payment

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("payment: not found")
	ErrInvalidAmount     = errors.New("payment: amount must be greater than zero")
	ErrUnsupportedMethod = errors.New("payment: unsupported payment method")
)

// Method identifies a supported payment instrument.
type Method string

const (
	MethodGCash        Method = "gcash"
	MethodPayMaya      Method = "paymaya"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
)

func (m Method) Valid() bool {
	switch m {
	case MethodGCash, MethodPayMaya, MethodCard, MethodBankTransfer:
		return true
	}
	return false
}

// Methods lists the supported instruments in presentation order.
func Methods() []Method {
	return []Method{MethodGCash, MethodPayMaya, MethodCard, MethodBankTransfer}
}

type Status string

const (
	StatusCompleted      Status = "completed"
	StatusRefundRequired Status = "refund_required"
	StatusRefunded       Status = "refunded"
)

// Record ties a gateway charge to an order, one-to-one. It is created only
// after the gateway confirms, and is immutable once completed.
type Record struct {
	ID        string
	OrderID   string
	UserID    string
	Amount    int64
	Method    Method
	Reference string
	Status    Status
	CreatedAt time.Time
}

func NewRecord(id, orderID, userID string, amount int64, method Method, reference string, status Status) (*Record, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !method.Valid() {
		return nil, ErrUnsupportedMethod
	}
	return &Record{
		ID:        id,
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}, nil
}
