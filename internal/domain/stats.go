package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the landing-page summary
type DashboardStats struct {
	TotalBooks      int64           `json:"total_books"`
	TotalMembers    int64           `json:"total_members"`
	UnpaidFines     decimal.Decimal `json:"total_fines_unpaid"`
	BooksCheckedOut int64           `json:"books_checked_out"`
}

// Defaulter is a member ranked by outstanding fines
type Defaulter struct {
	MemberID    int32           `json:"member_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	UnpaidTotal decimal.Decimal `json:"unpaid_total"`
	// Outstanding is UnpaidTotal less partial payments already taken
	Outstanding decimal.Decimal `json:"outstanding"`
	FineCount   int64           `json:"fine_count"`
}

// Snapshot is the full set of aggregates behind the analytics report
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalBooks     int64 `json:"total_books"`
	AvailableBooks int64 `json:"available_books"`
	BorrowedBooks  int64 `json:"borrowed_books"`
	TotalMembers   int64 `json:"total_members"`

	TotalFines     decimal.Decimal `json:"total_fines"`
	PaidFines      decimal.Decimal `json:"paid_fines"`
	UnpaidFines    decimal.Decimal `json:"unpaid_fines"`
	CollectionRate decimal.Decimal `json:"collection_rate"`

	TopDefaulters  []Defaulter `json:"top_defaulters"`
	RecentActivity []History   `json:"recent_activity"`
}

// EmptySnapshot returns the all-zero snapshot used when the store fails
func EmptySnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		GeneratedAt:    at,
		TotalFines:     decimal.Zero,
		PaidFines:      decimal.Zero,
		UnpaidFines:    decimal.Zero,
		CollectionRate: decimal.Zero,
		TopDefaulters:  []Defaulter{},
		RecentActivity: []History{},
	}
}

// CollectionRate returns paid/total*100 rounded to two places, or zero
// when nothing has been fined.
func CollectionRate(paid, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return paid.Mul(decimal.NewFromInt(100)).DivRound(total, 2)
}
