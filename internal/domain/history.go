package domain

import "time"

type HistoryAction string

const (
	HistoryActionBorrow HistoryAction = "borrow"
	HistoryActionReturn HistoryAction = "return"
)

// Valid reports whether a is one of the two recorded actions
func (a HistoryAction) Valid() bool {
	return a == HistoryActionBorrow || a == HistoryActionReturn
}

// History is an immutable borrow or return log entry
type History struct {
	ID        int32         `json:"id"`
	MemberID  int32         `json:"member_id"`
	BookID    int32         `json:"book_id"`
	Action    HistoryAction `json:"action"`
	Timestamp time.Time     `json:"timestamp"`

	// Populated on list queries
	MemberName string `json:"member_name,omitempty"`
	BookTitle  string `json:"book_title,omitempty"`
}
