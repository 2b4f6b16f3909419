package http

import (
	"context"
	"net/http"
	"time"

	"library-fines-backend/internal/metrics"
	"library-fines-backend/internal/security"
	"library-fines-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Auth        service.AuthService
	Members     service.MemberService
	Books       service.BookService
	Fines       service.FineService
	Circulation service.CirculationService
	Analytics   service.AnalyticsService
	Reports     service.ReportService
	Settings    service.SettingsService
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes the librarian API over HTTP
type Server struct {
	svc        Services
	tokens     security.TokenManager
	db         Pinger
	cookieName string
	cookieTTL  time.Duration
}

func NewServer(svc Services, tokens security.TokenManager, db Pinger, cookieName string, cookieTTL time.Duration) *Server {
	return &Server{
		svc:        svc,
		tokens:     tokens,
		db:         db,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
}

// Router builds the route table. Every route is named; the name selects
// the required security level in config.RouteSecurityConfig.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, instrument, s.authenticate)

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet).Name("healthz")
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost).Name("auth.logout")
	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet).Name("dashboard")

	api.HandleFunc("/books", s.listBooks).Methods(http.MethodGet).Name("books.list")
	api.HandleFunc("/books", s.createBook).Methods(http.MethodPost).Name("books.create")
	api.HandleFunc("/books/{id:[0-9]+}", s.getBook).Methods(http.MethodGet).Name("books.get")
	api.HandleFunc("/books/{id:[0-9]+}", s.updateBook).Methods(http.MethodPut).Name("books.update")
	api.HandleFunc("/books/{id:[0-9]+}", s.deleteBook).Methods(http.MethodDelete).Name("books.delete")

	api.HandleFunc("/members", s.listMembers).Methods(http.MethodGet).Name("members.list")
	api.HandleFunc("/members", s.createMember).Methods(http.MethodPost).Name("members.create")
	api.HandleFunc("/members/{id:[0-9]+}", s.getMember).Methods(http.MethodGet).Name("members.get")
	api.HandleFunc("/members/{id:[0-9]+}", s.updateMember).Methods(http.MethodPut).Name("members.update")
	api.HandleFunc("/members/{id:[0-9]+}", s.deleteMember).Methods(http.MethodDelete).Name("members.delete")

	api.HandleFunc("/fines", s.listFines).Methods(http.MethodGet).Name("fines.list")
	api.HandleFunc("/fines", s.createFine).Methods(http.MethodPost).Name("fines.create")
	api.HandleFunc("/fines/{id:[0-9]+}", s.getFine).Methods(http.MethodGet).Name("fines.get")
	api.HandleFunc("/fines/{id:[0-9]+}/payments", s.payFine).Methods(http.MethodPost).Name("fines.pay")

	api.HandleFunc("/history", s.listHistory).Methods(http.MethodGet).Name("history.list")
	api.HandleFunc("/history/borrow", s.borrow).Methods(http.MethodPost).Name("history.borrow")
	api.HandleFunc("/history/return", s.giveBack).Methods(http.MethodPost).Name("history.return")

	api.HandleFunc("/reports", s.snapshot).Methods(http.MethodGet).Name("reports.snapshot")
	api.HandleFunc("/export/history", s.exportHistory).Methods(http.MethodGet).Name("export.history")
	api.HandleFunc("/export/fines", s.exportFines).Methods(http.MethodGet).Name("export.fines")
	api.HandleFunc("/export/reports", s.exportReports).Methods(http.MethodGet).Name("export.reports")

	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet).Name("settings.get")
	api.HandleFunc("/settings", s.updateSettings).Methods(http.MethodPut).Name("settings.update")

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
