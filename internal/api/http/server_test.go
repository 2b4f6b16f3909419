package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"
	"library-fines-backend/internal/security"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	router    http.Handler
	tokens    security.TokenManager
	auth      *MockAuthService
	books     *MockBookService
	fines     *MockFineService
	history   *MockCirculationService
	analytics *MockAnalyticsService
	reports   *MockReportService
	settings  *MockSettingsService
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newHarness(db Pinger) *harness {
	h := &harness{
		tokens:    security.NewTokenManager(testSecret, time.Hour),
		auth:      new(MockAuthService),
		books:     new(MockBookService),
		fines:     new(MockFineService),
		history:   new(MockCirculationService),
		analytics: new(MockAnalyticsService),
		reports:   new(MockReportService),
		settings:  new(MockSettingsService),
	}
	srv := NewServer(Services{
		Auth:        h.auth,
		Books:       h.books,
		Fines:       h.fines,
		Circulation: h.history,
		Analytics:   h.analytics,
		Reports:     h.reports,
		Settings:    h.settings,
	}, h.tokens, db, "library_session", time.Hour)
	h.router = srv.Router()
	return h
}

func (h *harness) token(t *testing.T, admin bool) string {
	t.Helper()
	token, err := h.tokens.GenerateAccessToken(1, "librarian", admin)
	require.NoError(t, err)
	return token
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newHarness(fakePinger{})
	rec := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	h = newHarness(fakePinger{err: errors.New("down")})
	rec = h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestAuthentication(t *testing.T) {
	h := newHarness(nil)
	h.books.On("ListBooks", mock.Anything).Return([]domain.Book{{ID: 1, Title: "Dune"}}, nil)

	t.Run("Missing token", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/books", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/books", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Bearer token", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/books", h.token(t, false), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dune")
	})

	t.Run("Session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		req.AddCookie(&http.Cookie{Name: "library_session", Value: h.token(t, false)})
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	h := newHarness(nil)
	user := &domain.User{ID: 1, Username: "admin", IsAdmin: true}
	h.auth.On("Login", mock.Anything, "admin", "secret").Return("signed-token", user, nil)
	h.auth.On("Login", mock.Anything, "admin", "wrong").Return("", nil, domain.ErrInvalidCredentials)

	rec := h.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "library_session", cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(nil)
	rec := h.do(t, http.MethodPost, "/api/v1/auth/logout", h.token(t, false), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSettingsUpdate_RequiresAdmin(t *testing.T) {
	h := newHarness(nil)
	days := 21
	update := domain.SettingsUpdate{MaxBorrowDays: &days}
	h.settings.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(u domain.SettingsUpdate) bool {
		return u.MaxBorrowDays != nil && *u.MaxBorrowDays == 21 && u.FineRate == nil
	})).Return(&domain.Settings{FineRate: decimal.NewFromInt(5), MaxBorrowDays: 21, AppVersion: "1.0.0"}, nil)

	rec := h.do(t, http.MethodPut, "/api/v1/settings", h.token(t, false), update)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	h.settings.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything)

	rec = h.do(t, http.MethodPut, "/api/v1/settings", h.token(t, true), update)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"max_borrow_days":21`)
}

func TestDashboard_FormatsUnpaidFines(t *testing.T) {
	h := newHarness(nil)
	h.analytics.On("Dashboard", mock.Anything).Return(&domain.DashboardStats{
		TotalBooks:      10,
		TotalMembers:    4,
		UnpaidFines:     decimal.RequireFromString("12.5"),
		BooksCheckedOut: 3,
	})

	rec := h.do(t, http.MethodGet, "/api/v1/dashboard", h.token(t, false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12.50", resp.UnpaidFines)
	assert.Equal(t, int64(3), resp.BooksCheckedOut)
}

func TestListFines_DefaultsToUnpaid(t *testing.T) {
	h := newHarness(nil)
	h.fines.On("ListFines", mock.Anything, domain.FineFilter{Status: domain.FineStatusUnpaid}).Return([]domain.Fine{}, nil)
	h.fines.On("ListFines", mock.Anything, domain.FineFilter{MemberID: 3}).Return([]domain.Fine{}, nil)

	rec := h.do(t, http.MethodGet, "/api/v1/fines", h.token(t, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/fines?status=all&member_id=3", h.token(t, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/fines?status=overdue", h.token(t, false), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	h.fines.AssertNumberOfCalls(t, "ListFines", 2)
}

func TestPayFine(t *testing.T) {
	h := newHarness(nil)
	settled := &domain.Fine{ID: 4, Amount: decimal.NewFromInt(30), Paid: true}
	payment := &domain.Payment{ID: 9, FineID: 4, Amount: decimal.NewFromInt(30)}
	h.fines.On("RecordPayment", mock.Anything, int32(4), (*decimal.Decimal)(nil)).Return(settled, payment, nil)
	h.fines.On("RecordPayment", mock.Anything, int32(5), mock.Anything).Return(nil, nil, domain.ErrConflict)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fines/4/payments", nil)
	req.Header.Set("Authorization", "Bearer "+h.token(t, false))
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paid":true`)

	rec = h.do(t, http.MethodPost, "/api/v1/fines/5/payments", h.token(t, false), map[string]string{"amount": "10.00"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBorrow(t *testing.T) {
	h := newHarness(nil)
	h.history.On("Borrow", mock.Anything, int32(1), int32(2)).
		Return(&domain.History{ID: 7, MemberID: 1, BookID: 2, Action: domain.HistoryActionBorrow}, nil)
	h.history.On("Borrow", mock.Anything, int32(1), int32(3)).
		Return(nil, fmt.Errorf("%w: book 3 is already on loan", domain.ErrConflict))

	rec := h.do(t, http.MethodPost, "/api/v1/history/borrow", h.token(t, false), circulationRequest{MemberID: 1, BookID: 2})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/v1/history/borrow", h.token(t, false), circulationRequest{MemberID: 1, BookID: 3})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already on loan")
}

func TestListHistory_Validation(t *testing.T) {
	h := newHarness(nil)
	rec := h.do(t, http.MethodGet, "/api/v1/history?limit=0", h.token(t, false), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/v1/history?date_from=2024-13-01", h.token(t, false), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	h.history.AssertNotCalled(t, "ListHistory", mock.Anything, mock.Anything)
}

func TestExportHistory(t *testing.T) {
	h := newHarness(nil)
	doc := &report.Document{
		ID:          uuid.New(),
		Kind:        report.KindHistory,
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	pdf := []byte("%PDF-1.3 test")
	h.reports.On("HistoryReport", mock.Anything, "2024-02-01", "2024-02-29", "borrow").Return(doc, pdf, nil)
	h.reports.On("HistoryReport", mock.Anything, "bad", "", "").
		Return(nil, nil, fmt.Errorf("%w: date_from", domain.ErrInvalidFilter))
	h.reports.On("HistoryReport", mock.Anything, "2030-01-01", "", "").Return(nil, nil, domain.ErrNoData)

	t.Run("Status alias", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/history?date_from=2024-02-01&date_to=2024-02-29&status=borrow", h.token(t, false), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="history_report_20240301_093000.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, pdf, rec.Body.Bytes())
	})

	t.Run("Bad date", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/history?date_from=bad", h.token(t, false), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("No data", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/history?date_from=2030-01-01", h.token(t, false), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestExportReports_RenderFailure(t *testing.T) {
	h := newHarness(nil)
	h.reports.On("AnalyticsReport", mock.Anything, domain.FineFilter{}).
		Return(nil, nil, fmt.Errorf("%w: font missing", domain.ErrRenderFailure))

	rec := h.do(t, http.MethodGet, "/api/v1/export/reports", h.token(t, false), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "font missing")
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrInvalidFilter:                            http.StatusBadRequest,
		fmt.Errorf("wrap: %w", domain.ErrInvalidInput):     http.StatusBadRequest,
		domain.ErrNoData:                                   http.StatusNotFound,
		domain.ErrNotFound:                                 http.StatusNotFound,
		domain.ErrInvalidCredentials:                       http.StatusUnauthorized,
		domain.ErrForbidden:                                http.StatusForbidden,
		domain.ErrConflict:                                 http.StatusConflict,
		domain.ErrRenderFailure:                            http.StatusInternalServerError,
		fmt.Errorf("wrap: %w", domain.ErrStoreUnavailable): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}

func TestSnapshot(t *testing.T) {
	h := newHarness(nil)
	h.analytics.On("Snapshot", mock.Anything, domain.FineFilter{}).
		Return(domain.EmptySnapshot(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	rec := h.do(t, http.MethodGet, "/api/v1/reports", h.token(t, false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"top_defaulters":[]`)

	rec = h.do(t, http.MethodGet, "/api/v1/reports?date_from=yesterday", h.token(t, false), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	h.analytics.AssertNumberOfCalls(t, "Snapshot", 1)
}

func TestBooks(t *testing.T) {
	h := newHarness(nil)
	h.books.On("CreateBook", mock.Anything, mock.AnythingOfType("*domain.Book")).Run(func(args mock.Arguments) {
		book := args.Get(1).(*domain.Book)
		book.ID = 12
		book.Available = true
	}).Return(nil)
	h.books.On("GetBook", mock.Anything, int32(99)).Return(nil, domain.ErrNotFound)
	h.books.On("DeleteBook", mock.Anything, int32(12)).Return(nil)

	rec := h.do(t, http.MethodPost, "/api/v1/books", h.token(t, false), domain.Book{Title: "Dune", Author: "Herbert"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int32(12), created.ID)
	assert.True(t, created.Available)

	rec = h.do(t, http.MethodGet, "/api/v1/books/99", h.token(t, false), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/v1/books/12", h.token(t, false), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
