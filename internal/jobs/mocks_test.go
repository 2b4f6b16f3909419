package jobs

import (
	"context"
	"time"

	"library-fines-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockBookRepo) SyncAvailability(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, fine *domain.Fine) error {
	return m.Called(ctx, fine).Error(0)
}
func (m *MockFineRepo) UpsertForHistory(ctx context.Context, fine *domain.Fine) (bool, error) {
	args := m.Called(ctx, fine)
	return args.Bool(0), args.Error(1)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) List(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) RecordPayment(ctx context.Context, payment *domain.Payment) (*domain.Fine, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListPayments(ctx context.Context, fineID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, fineID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockFineRepo) ReconcilePaidFlags(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Record(ctx context.Context, entry *domain.History) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockHistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.History), args.Error(1)
}
func (m *MockHistoryRepo) ListOpenBorrowsBefore(ctx context.Context, cutoff time.Time) ([]domain.History, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.History), args.Error(1)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) CountBooks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStatsRepo) CountAvailableBooks(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStatsRepo) CountMembers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockStatsRepo) SumFines(ctx context.Context, filter domain.FineFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockStatsRepo) TopDefaulters(ctx context.Context, filter domain.FineFilter, limit int) ([]domain.Defaulter, error) {
	args := m.Called(ctx, filter, limit)
	return args.Get(0).([]domain.Defaulter), args.Error(1)
}
func (m *MockStatsRepo) RecentHistory(ctx context.Context, limit int) ([]domain.History, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.History), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsService) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (*domain.Settings, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}
func (m *MockSettingsService) SeedDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendFineReminder(ctx context.Context, email, name string, outstanding decimal.Decimal, fineCount int64) error {
	return m.Called(ctx, email, name, outstanding, fineCount).Error(0)
}
