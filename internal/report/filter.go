package report

import (
	"fmt"
	"strings"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/utils"
)

// ParseHistoryFilter turns raw query parameters into a history filter.
// Dates are yyyy-mm-dd and inclusive; action may be empty, "all", "borrow"
// or "return".
func ParseHistoryFilter(dateFrom, dateTo, action string) (domain.HistoryFilter, error) {
	from, until, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return domain.HistoryFilter{}, err
	}

	f := domain.HistoryFilter{From: from, Until: until}
	switch a := strings.ToLower(strings.TrimSpace(action)); a {
	case "", "all":
	default:
		if !domain.HistoryAction(a).Valid() {
			return domain.HistoryFilter{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidFilter, action)
		}
		f.Action = domain.HistoryAction(a)
	}
	return f, nil
}

// ParseFineFilter is ParseHistoryFilter for fines; status may be empty,
// "all", "paid" or "unpaid".
func ParseFineFilter(dateFrom, dateTo, status string) (domain.FineFilter, error) {
	from, until, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return domain.FineFilter{}, err
	}

	f := domain.FineFilter{From: from, Until: until}
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "", "all":
	case string(domain.FineStatusPaid), string(domain.FineStatusUnpaid):
		f.Status = domain.FineStatus(s)
	default:
		return domain.FineFilter{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, status)
	}
	return f, nil
}

// parseRange returns [from, until) where until is the day after dateTo
func parseRange(dateFrom, dateTo string) (*time.Time, *time.Time, error) {
	var from, until *time.Time
	if strings.TrimSpace(dateFrom) != "" {
		t, err := utils.ParseDate(dateFrom)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_from: %v", domain.ErrInvalidFilter, err)
		}
		from = &t
	}
	if strings.TrimSpace(dateTo) != "" {
		t, err := utils.ParseDate(dateTo)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_to: %v", domain.ErrInvalidFilter, err)
		}
		next := t.AddDate(0, 0, 1)
		until = &next
	}
	if from != nil && until != nil && !from.Before(*until) {
		return nil, nil, fmt.Errorf("%w: date_from is after date_to", domain.ErrInvalidFilter)
	}
	return from, until, nil
}

// describePeriod renders a filter range for report metadata
func describePeriod(from, until *time.Time) string {
	switch {
	case from == nil && until == nil:
		return "All dates"
	case until == nil:
		return "From " + utils.FormatDate(*from)
	case from == nil:
		return "Up to " + utils.FormatDate(until.AddDate(0, 0, -1))
	default:
		return utils.FormatDate(*from) + " to " + utils.FormatDate(until.AddDate(0, 0, -1))
	}
}
