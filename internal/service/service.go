package service

import (
	"context"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"

	"github.com/shopspring/decimal"
)

type AuthService interface {
	// Login verifies credentials and returns a signed session token
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// EnsureAdmin creates the bootstrap admin account when it is missing
	EnsureAdmin(ctx context.Context, username, password string) error
}

type MemberService interface {
	CreateMember(ctx context.Context, member *domain.Member) error
	GetMember(ctx context.Context, id int32) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	UpdateMember(ctx context.Context, member *domain.Member) error
	DeleteMember(ctx context.Context, id int32) error
}

type BookService interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int32) error
}

type FineService interface {
	CreateFine(ctx context.Context, fine *domain.Fine) error
	GetFine(ctx context.Context, id int32) (*domain.Fine, []domain.Payment, error)
	ListFines(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error)
	// RecordPayment pays amount towards a fine; a nil amount pays the
	// outstanding balance.
	RecordPayment(ctx context.Context, fineID int32, amount *decimal.Decimal) (*domain.Fine, *domain.Payment, error)
}

type CirculationService interface {
	Borrow(ctx context.Context, memberID, bookID int32) (*domain.History, error)
	Return(ctx context.Context, memberID, bookID int32) (*domain.History, error)
	ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error)
}

// AnalyticsService never fails: store errors produce zero-valued results
type AnalyticsService interface {
	Dashboard(ctx context.Context) *domain.DashboardStats
	Snapshot(ctx context.Context, filter domain.FineFilter) *domain.Snapshot
}

type ReportService interface {
	AnalyticsReport(ctx context.Context, filter domain.FineFilter) (*report.Document, []byte, error)
	HistoryReport(ctx context.Context, dateFrom, dateTo, action string) (*report.Document, []byte, error)
	FinesReport(ctx context.Context, dateFrom, dateTo, status string) (*report.Document, []byte, error)
}

type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (*domain.Settings, error)
	// SeedDefaults stores configured values for missing keys and records
	// the running app version.
	SeedDefaults(ctx context.Context) error
}

type EmailService interface {
	SendFineReminder(ctx context.Context, email, name string, outstanding decimal.Decimal, fineCount int64) error
}

// Renderer turns a report document into a downloadable file
type Renderer interface {
	Render(doc *report.Document) ([]byte, error)
}
