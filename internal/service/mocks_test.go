package service

import (
	"context"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
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

// MockHistoryRepo
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Record(ctx context.Context, entry *domain.History) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockHistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.History, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.History), args.Error(1)
}
func (m *MockHistoryRepo) ListOpenBorrowsBefore(ctx context.Context, cutoff time.Time) ([]domain.History, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.History), args.Error(1)
}

// MockStatsRepo
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

// MockSettingsRepo
type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Load(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]string), args.Error(1)
}
func (m *MockSettingsRepo) Save(ctx context.Context, values map[string]string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(doc *report.Document) ([]byte, error) {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAnalytics
type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) Dashboard(ctx context.Context) *domain.DashboardStats {
	args := m.Called(ctx)
	return args.Get(0).(*domain.DashboardStats)
}
func (m *MockAnalytics) Snapshot(ctx context.Context, filter domain.FineFilter) *domain.Snapshot {
	args := m.Called(ctx, filter)
	return args.Get(0).(*domain.Snapshot)
}
