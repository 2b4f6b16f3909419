package http

import (
	"net/http"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"

	"github.com/shopspring/decimal"
)

type fineDetail struct {
	Fine     *domain.Fine     `json:"fine"`
	Payments []domain.Payment `json:"payments"`
}

type paymentRequest struct {
	// Omitted pays the outstanding balance
	Amount *decimal.Decimal `json:"amount"`
}

type paymentResponse struct {
	Fine    *domain.Fine    `json:"fine"`
	Payment *domain.Payment `json:"payment"`
}

// listFines shows unpaid fines unless ?status= says otherwise
func (s *Server) listFines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := string(domain.FineStatusUnpaid)
	if q.Has("status") {
		status = q.Get("status")
	}
	filter, err := report.ParseFineFilter(q.Get("date_from"), q.Get("date_to"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if filter.MemberID, err = optionalID(r, "member_id"); err != nil {
		writeError(w, r, err)
		return
	}

	fines, err := s.svc.Fines.ListFines(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}

func (s *Server) createFine(w http.ResponseWriter, r *http.Request) {
	var fine domain.Fine
	if err := decodeJSON(w, r, &fine); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Fines.CreateFine(r.Context(), &fine); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fine)
}

func (s *Server) getFine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fine, payments, err := s.svc.Fines.GetFine(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, fineDetail{Fine: fine, Payments: payments})
}

func (s *Server) payFine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	fine, payment, err := s.svc.Fines.RecordPayment(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentResponse{Fine: fine, Payment: payment})
}
