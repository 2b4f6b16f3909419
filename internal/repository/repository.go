package repository

import (
	"context"
	"time"

	"library-fines-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int32, hash string) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id int32) error
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error

	// SyncAvailability recomputes books.available from the latest history
	// action per book and returns how many rows changed.
	SyncAvailability(ctx context.Context) (int64, error)
}

type FineRepository interface {
	Create(ctx context.Context, fine *domain.Fine) error
	// UpsertForHistory writes the overdue fine for a borrow record. An
	// existing unpaid fine for the same record is raised to the new amount;
	// paid or larger fines are left alone. Reports whether a row was written.
	UpsertForHistory(ctx context.Context, fine *domain.Fine) (bool, error)
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)
	List(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error)

	// RecordPayment stores the payment and settles the fine in one
	// transaction once cumulative payments cover the amount.
	RecordPayment(ctx context.Context, payment *domain.Payment) (*domain.Fine, error)
	ListPayments(ctx context.Context, fineID int32) ([]domain.Payment, error)
	// ReconcilePaidFlags fixes fines whose paid flag disagrees with their
	// payments and returns how many rows changed.
	ReconcilePaidFlags(ctx context.Context) (int64, error)
}

type HistoryRepository interface {
	// Record appends a borrow/return entry and flips the book's
	// availability in the same transaction.
	Record(ctx context.Context, entry *domain.History) error
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error)
	// ListOpenBorrowsBefore returns borrow entries older than cutoff that
	// have no later return for the same book.
	ListOpenBorrowsBefore(ctx context.Context, cutoff time.Time) ([]domain.History, error)
}

// StatsRepository is the read-only aggregate query surface used by the
// analytics engine.
type StatsRepository interface {
	CountBooks(ctx context.Context) (int64, error)
	CountAvailableBooks(ctx context.Context) (int64, error)
	CountMembers(ctx context.Context) (int64, error)
	SumFines(ctx context.Context, filter domain.FineFilter) (decimal.Decimal, error)
	// TopDefaulters ranks members by unpaid fine total; limit <= 0 means all.
	TopDefaulters(ctx context.Context, filter domain.FineFilter, limit int) ([]domain.Defaulter, error)
	RecentHistory(ctx context.Context, limit int) ([]domain.History, error)
}

type SettingsRepository interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}
