package http

import (
	"fmt"
	"net/http"
	"strconv"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/report"
)

type dashboardResponse struct {
	TotalBooks      int64  `json:"total_books"`
	TotalMembers    int64  `json:"total_members"`
	UnpaidFines     string `json:"total_fines_unpaid"`
	BooksCheckedOut int64  `json:"books_checked_out"`
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	stats := s.svc.Analytics.Dashboard(r.Context())
	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalBooks:      stats.TotalBooks,
		TotalMembers:    stats.TotalMembers,
		UnpaidFines:     stats.UnpaidFines.StringFixed(2),
		BooksCheckedOut: stats.BooksCheckedOut,
	})
}

// snapshot returns the analytics aggregates as JSON. Fine totals honour
// date_from/date_to; status is always all.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	filter, err := analyticsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Analytics.Snapshot(r.Context(), filter))
}

func (s *Server) exportReports(w http.ResponseWriter, r *http.Request) {
	filter, err := analyticsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, pdf, err := s.svc.Reports.AnalyticsReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, r, doc, pdf)
}

// exportHistory accepts status as an alias for action
func (s *Server) exportHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := q.Get("action")
	if action == "" {
		action = q.Get("status")
	}
	doc, pdf, err := s.svc.Reports.HistoryReport(r.Context(), q.Get("date_from"), q.Get("date_to"), action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, r, doc, pdf)
}

// exportFines exports unpaid fines unless ?status= says otherwise
func (s *Server) exportFines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := string(domain.FineStatusUnpaid)
	if q.Has("status") {
		status = q.Get("status")
	}
	doc, pdf, err := s.svc.Reports.FinesReport(r.Context(), q.Get("date_from"), q.Get("date_to"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, r, doc, pdf)
}

func analyticsFilter(r *http.Request) (domain.FineFilter, error) {
	q := r.URL.Query()
	return report.ParseFineFilter(q.Get("date_from"), q.Get("date_to"), "")
}

func writePDF(w http.ResponseWriter, r *http.Request, doc *report.Document, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logger.WarnContext(r.Context(), "Failed to write PDF response", "docID", doc.ID, "error", err)
	}
}
