package http

import (
	"net/http"
	"strconv"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"
)

const maxHistoryLimit = 1000

type circulationRequest struct {
	MemberID int32 `json:"member_id"`
	BookID   int32 `json:"book_id"`
}

// listHistory returns entries newest first
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := report.ParseHistoryFilter(q.Get("date_from"), q.Get("date_to"), q.Get("action"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if filter.MemberID, err = optionalID(r, "member_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.BookID, err = optionalID(r, "book_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxHistoryLimit {
			writeErrorStatus(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		filter.Limit = limit
	}
	filter.Descending = true

	entries, err := s.svc.Circulation.ListHistory(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) borrow(w http.ResponseWriter, r *http.Request) {
	s.circulate(w, r, domain.HistoryActionBorrow)
}

func (s *Server) giveBack(w http.ResponseWriter, r *http.Request) {
	s.circulate(w, r, domain.HistoryActionReturn)
}

func (s *Server) circulate(w http.ResponseWriter, r *http.Request, action domain.HistoryAction) {
	var req circulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		entry *domain.History
		err   error
	)
	if action == domain.HistoryActionBorrow {
		entry, err = s.svc.Circulation.Borrow(r.Context(), req.MemberID, req.BookID)
	} else {
		entry, err = s.svc.Circulation.Return(r.Context(), req.MemberID, req.BookID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
