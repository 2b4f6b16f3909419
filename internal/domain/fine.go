package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Fine struct {
	ID       int32           `json:"id"`
	MemberID int32           `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	// CreatedAt is set by the store on insert
	CreatedAt time.Time `json:"created_at"`
	Paid      bool      `json:"paid"`
	// SourceHistoryID links fines raised by the overdue job to the borrow
	// record that caused them; nil for fines entered by a librarian.
	SourceHistoryID *int32 `json:"source_history_id,omitempty"`

	// Populated on list queries
	MemberName string          `json:"member_name,omitempty"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// Outstanding returns what is still owed on the fine
func (f *Fine) Outstanding() decimal.Decimal {
	if f.Paid {
		return decimal.Zero
	}
	rest := f.Amount.Sub(f.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// Validate checks a fine before it is stored
func (f *Fine) Validate() error {
	if f.MemberID <= 0 {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	if f.Amount.IsNegative() {
		return fmt.Errorf("%w: fine amount must not be negative", ErrInvalidInput)
	}
	if !f.Amount.Equal(f.Amount.Round(2)) {
		return fmt.Errorf("%w: fine amount has more than two decimal places", ErrInvalidInput)
	}
	if len(f.Reason) > 255 {
		return fmt.Errorf("%w: reason exceeds 255 characters", ErrInvalidInput)
	}
	return nil
}

type Payment struct {
	ID     int32           `json:"id"`
	FineID int32           `json:"fine_id"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
}

// Validate checks a payment before it is stored
func (p *Payment) Validate() error {
	if p.FineID <= 0 {
		return fmt.Errorf("%w: fine id is required", ErrInvalidInput)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if !p.Amount.Equal(p.Amount.Round(2)) {
		return fmt.Errorf("%w: payment amount has more than two decimal places", ErrInvalidInput)
	}
	return nil
}
