package postgres

import (
	"strconv"
	"strings"

	"library-fines-backend/internal/domain"
)

// whereClause collects AND-ed conditions with positional arguments.
// Conditions use "?" for their single argument; it is rewritten to the
// next $n placeholder.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.conds = append(w.conds, strings.Replace(cond, "?", w.bind(arg), 1))
}

// bind appends arg and returns its placeholder
func (w *whereClause) bind(arg any) string {
	w.args = append(w.args, arg)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func historyWhere(f domain.HistoryFilter) *whereClause {
	w := &whereClause{}
	if f.From != nil {
		w.add("h.timestamp >= ?", *f.From)
	}
	if f.Until != nil {
		w.add("h.timestamp < ?", *f.Until)
	}
	if f.Action != "" {
		w.add("h.action = ?", string(f.Action))
	}
	if f.MemberID > 0 {
		w.add("h.member_id = ?", f.MemberID)
	}
	if f.BookID > 0 {
		w.add("h.book_id = ?", f.BookID)
	}
	return w
}

func fineWhere(f domain.FineFilter) *whereClause {
	w := &whereClause{}
	if f.From != nil {
		w.add("f.created_at >= ?", *f.From)
	}
	if f.Until != nil {
		w.add("f.created_at < ?", *f.Until)
	}
	switch f.Status {
	case domain.FineStatusPaid:
		w.add("f.paid = ?", true)
	case domain.FineStatusUnpaid:
		w.add("f.paid = ?", false)
	}
	if f.MemberID > 0 {
		w.add("f.member_id = ?", f.MemberID)
	}
	return w
}
