package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the yyyy-mm-dd form used by every date filter
	DateLayout = "2006-01-02"
	// TimestampLayout is how timestamps appear in report titles and tables
	TimestampLayout = "2006-01-02 15:04:05"
)

// ParseDate converts a yyyy-mm-dd string into midnight UTC of that day
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(dateStr), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", dateStr)
	}
	return t, nil
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatDate renders t in UTC using DateLayout
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// OverdueDays returns the number of whole days a loan has run past the
// allowed period. Loans still inside the period return 0.
func OverdueDays(borrowedAt, now time.Time, maxBorrowDays int) int {
	if now.Before(borrowedAt) {
		return 0
	}
	held := int(now.Sub(borrowedAt) / (24 * time.Hour))
	if held <= maxBorrowDays {
		return 0
	}
	return held - maxBorrowDays
}

// OverdueFine is rate multiplied by the overdue days, rounded to cents
func OverdueFine(rate decimal.Decimal, overdueDays int) decimal.Decimal {
	if overdueDays <= 0 || !rate.IsPositive() {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(int64(overdueDays))).Round(2)
}

// FormatMoney renders an amount with two decimals and the currency symbol
func FormatMoney(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		return amount.StringFixed(2)
	}
	return symbol + " " + amount.StringFixed(2)
}
