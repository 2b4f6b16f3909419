package http

import (
	"context"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}
func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) CreateBook(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}
func (m *MockBookService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	return m.Called(ctx, book).Error(0)
}
func (m *MockBookService) DeleteBook(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockFineService struct {
	mock.Mock
}

func (m *MockFineService) CreateFine(ctx context.Context, fine *domain.Fine) error {
	return m.Called(ctx, fine).Error(0)
}
func (m *MockFineService) GetFine(ctx context.Context, id int32) (*domain.Fine, []domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Fine), args.Get(1).([]domain.Payment), args.Error(2)
}
func (m *MockFineService) ListFines(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineService) RecordPayment(ctx context.Context, fineID int32, amount *decimal.Decimal) (*domain.Fine, *domain.Payment, error) {
	args := m.Called(ctx, fineID, amount)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Fine), args.Get(1).(*domain.Payment), args.Error(2)
}

type MockCirculationService struct {
	mock.Mock
}

func (m *MockCirculationService) Borrow(ctx context.Context, memberID, bookID int32) (*domain.History, error) {
	args := m.Called(ctx, memberID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.History), args.Error(1)
}
func (m *MockCirculationService) Return(ctx context.Context, memberID, bookID int32) (*domain.History, error) {
	args := m.Called(ctx, memberID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.History), args.Error(1)
}
func (m *MockCirculationService) ListHistory(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.History), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context) *domain.DashboardStats {
	return m.Called(ctx).Get(0).(*domain.DashboardStats)
}
func (m *MockAnalyticsService) Snapshot(ctx context.Context, filter domain.FineFilter) *domain.Snapshot {
	return m.Called(ctx, filter).Get(0).(*domain.Snapshot)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) result(args mock.Arguments) (*report.Document, []byte, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*report.Document), args.Get(1).([]byte), args.Error(2)
}
func (m *MockReportService) AnalyticsReport(ctx context.Context, filter domain.FineFilter) (*report.Document, []byte, error) {
	return m.result(m.Called(ctx, filter))
}
func (m *MockReportService) HistoryReport(ctx context.Context, dateFrom, dateTo, action string) (*report.Document, []byte, error) {
	return m.result(m.Called(ctx, dateFrom, dateTo, action))
}
func (m *MockReportService) FinesReport(ctx context.Context, dateFrom, dateTo, status string) (*report.Document, []byte, error) {
	return m.result(m.Called(ctx, dateFrom, dateTo, status))
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
