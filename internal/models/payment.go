package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Valid reports whether s is a known status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment may move from s to next.
// Staying in the same state is always allowed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusCompleted || next == PaymentStatusFailed
	case PaymentStatusCompleted:
		return next == PaymentStatusRefunded
	}
	return false
}

// Payment is one attempt to pay for an order. TransactionID is the
// gateway's payment-intent id.
type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string          `json:"order_id" gorm:"index;type:varchar(36);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(50);not null"`
	TransactionID string          `json:"transaction_id" gorm:"type:varchar(255);index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
