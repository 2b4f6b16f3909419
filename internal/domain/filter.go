package domain

import "time"

// HistoryFilter narrows a history query. Zero values mean "no restriction".
type HistoryFilter struct {
	// From is inclusive
	From *time.Time
	// Until is exclusive; a date_to of 2024-03-01 becomes 2024-03-02 00:00
	Until    *time.Time
	Action   HistoryAction
	MemberID int32
	BookID   int32
	// Newest first when set, chronological otherwise
	Descending bool
	Limit      int
}

type FineStatus string

const (
	FineStatusAll    FineStatus = ""
	FineStatusUnpaid FineStatus = "unpaid"
	FineStatusPaid   FineStatus = "paid"
)

// FineFilter narrows a fine query. Zero values mean "no restriction".
type FineFilter struct {
	From     *time.Time
	Until    *time.Time
	Status   FineStatus
	MemberID int32
}

// WithStatus returns a copy of f restricted to status
func (f FineFilter) WithStatus(status FineStatus) FineFilter {
	f.Status = status
	return f
}
