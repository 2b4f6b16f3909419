package service

import (
	"context"
	"testing"
	"time"

	"library-fines-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var analyticsNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

func newTestAnalytics(stats *MockStatsRepo, top, recent int) *analyticsService {
	svc := NewAnalyticsService(stats, top, recent).(*analyticsService)
	svc.now = func() time.Time { return analyticsNow }
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAnalyticsService_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Computes derived figures", func(t *testing.T) {
		stats := new(MockStatsRepo)
		stats.On("CountBooks", ctx).Return(int64(120), nil)
		stats.On("CountAvailableBooks", ctx).Return(int64(95), nil)
		stats.On("CountMembers", ctx).Return(int64(40), nil)
		stats.On("SumFines", ctx, domain.FineFilter{}).Return(dec("1000.00"), nil)
		stats.On("SumFines", ctx, domain.FineFilter{Status: domain.FineStatusPaid}).Return(dec("333.33"), nil)
		stats.On("TopDefaulters", ctx, domain.FineFilter{}, 5).Return([]domain.Defaulter{}, nil)
		stats.On("RecentHistory", ctx, 10).Return([]domain.History{{ID: 1}}, nil)

		snap := newTestAnalytics(stats, 5, 10).Snapshot(ctx, domain.FineFilter{})

		assert.Equal(t, analyticsNow, snap.GeneratedAt)
		assert.Equal(t, int64(25), snap.BorrowedBooks)
		assert.Equal(t, snap.TotalBooks-snap.AvailableBooks, snap.BorrowedBooks)
		assert.True(t, snap.UnpaidFines.Equal(dec("666.67")))
		assert.True(t, snap.UnpaidFines.Equal(snap.TotalFines.Sub(snap.PaidFines)))
		assert.Equal(t, "33.33", snap.CollectionRate.StringFixed(2))
		assert.Len(t, snap.RecentActivity, 1)
		stats.AssertExpectations(t)
	})

	t.Run("Empty store yields zeros", func(t *testing.T) {
		stats := new(MockStatsRepo)
		stats.On("CountBooks", ctx).Return(int64(0), nil)
		stats.On("CountAvailableBooks", ctx).Return(int64(0), nil)
		stats.On("CountMembers", ctx).Return(int64(0), nil)
		stats.On("SumFines", ctx, mock.Anything).Return(decimal.Zero, nil)
		stats.On("TopDefaulters", ctx, mock.Anything, 5).Return([]domain.Defaulter{}, nil)
		stats.On("RecentHistory", ctx, 10).Return([]domain.History{}, nil)

		snap := newTestAnalytics(stats, 5, 10).Snapshot(ctx, domain.FineFilter{})

		assert.True(t, snap.TotalFines.IsZero())
		assert.True(t, snap.UnpaidFines.IsZero())
		assert.True(t, snap.CollectionRate.IsZero())
		assert.Empty(t, snap.TopDefaulters)
	})

	t.Run("Store failure yields a fully zero snapshot", func(t *testing.T) {
		stats := new(MockStatsRepo)
		stats.On("CountBooks", ctx).Return(int64(120), nil)
		stats.On("CountAvailableBooks", ctx).Return(int64(0), domain.ErrStoreUnavailable)

		snap := newTestAnalytics(stats, 5, 10).Snapshot(ctx, domain.FineFilter{})

		require.NotNil(t, snap)
		assert.Equal(t, int64(0), snap.TotalBooks)
		assert.Equal(t, int64(0), snap.BorrowedBooks)
		assert.True(t, snap.CollectionRate.IsZero())
		assert.NotNil(t, snap.TopDefaulters)
		stats.AssertNotCalled(t, "CountMembers", mock.Anything)
	})
}

func TestAnalyticsService_TopDefaulters(t *testing.T) {
	ctx := context.Background()
	stats := new(MockStatsRepo)
	stats.On("CountBooks", ctx).Return(int64(0), nil)
	stats.On("CountAvailableBooks", ctx).Return(int64(0), nil)
	stats.On("CountMembers", ctx).Return(int64(3), nil)
	stats.On("SumFines", ctx, mock.Anything).Return(dec("700"), nil)
	stats.On("RecentHistory", ctx, 10).Return([]domain.History{}, nil)
	// Unordered on purpose; the engine must rank and cut regardless.
	stats.On("TopDefaulters", ctx, domain.FineFilter{}, 2).Return([]domain.Defaulter{
		{MemberID: 3, Name: "Cara", UnpaidTotal: dec("100")},
		{MemberID: 2, Name: "Bob", UnpaidTotal: dec("300")},
		{MemberID: 1, Name: "Ann", UnpaidTotal: dec("300")},
	}, nil)

	svc := newTestAnalytics(stats, 2, 10)
	first := svc.Snapshot(ctx, domain.FineFilter{})
	second := svc.Snapshot(ctx, domain.FineFilter{})

	require.Len(t, first.TopDefaulters, 2)
	assert.Equal(t, int32(1), first.TopDefaulters[0].MemberID)
	assert.Equal(t, int32(2), first.TopDefaulters[1].MemberID)
	for _, d := range first.TopDefaulters {
		assert.True(t, d.UnpaidTotal.Equal(dec("300")))
	}
	assert.Equal(t, first.TopDefaulters, second.TopDefaulters)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		stats := new(MockStatsRepo)
		stats.On("CountBooks", ctx).Return(int64(10), nil)
		stats.On("CountAvailableBooks", ctx).Return(int64(7), nil)
		stats.On("CountMembers", ctx).Return(int64(4), nil)
		stats.On("SumFines", ctx, domain.FineFilter{Status: domain.FineStatusUnpaid}).Return(dec("45.5"), nil)

		out := newTestAnalytics(stats, 5, 5).Dashboard(ctx)
		assert.Equal(t, int64(3), out.BooksCheckedOut)
		assert.Equal(t, "45.50", out.UnpaidFines.StringFixed(2))
	})

	t.Run("Failure", func(t *testing.T) {
		stats := new(MockStatsRepo)
		stats.On("CountBooks", ctx).Return(int64(0), domain.ErrStoreUnavailable)

		out := newTestAnalytics(stats, 5, 5).Dashboard(ctx)
		assert.Equal(t, &domain.DashboardStats{}, out)
	})
}
