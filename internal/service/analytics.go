package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/metrics"
	"library-fines-backend/internal/repository"
)

type analyticsService struct {
	stats          repository.StatsRepository
	topDefaulters  int
	recentActivity int
	now            func() time.Time
}

func NewAnalyticsService(stats repository.StatsRepository, topDefaulters, recentActivity int) AnalyticsService {
	return &analyticsService{
		stats:          stats,
		topDefaulters:  topDefaulters,
		recentActivity: recentActivity,
		now:            time.Now,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) *domain.DashboardStats {
	stats, err := s.dashboard(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Dashboard aggregation failed, returning zero values", "error", err)
		metrics.AggregationFailures.WithLabelValues("dashboard").Inc()
		return &domain.DashboardStats{}
	}
	return stats
}

func (s *analyticsService) dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	var available int64
	var err error

	if out.TotalBooks, err = s.stats.CountBooks(ctx); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if available, err = s.stats.CountAvailableBooks(ctx); err != nil {
		return nil, fmt.Errorf("count available books: %w", err)
	}
	if out.TotalMembers, err = s.stats.CountMembers(ctx); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if out.UnpaidFines, err = s.stats.SumFines(ctx, domain.FineFilter{Status: domain.FineStatusUnpaid}); err != nil {
		return nil, fmt.Errorf("sum unpaid fines: %w", err)
	}
	out.UnpaidFines = out.UnpaidFines.Round(2)
	out.BooksCheckedOut = out.TotalBooks - available
	return &out, nil
}

// Snapshot computes every aggregate for the analytics report. The fine
// filter narrows fine totals and defaulters; book, member and activity
// figures are always library-wide. Any store error yields an all-zero
// snapshot so callers never see a partial result.
func (s *analyticsService) Snapshot(ctx context.Context, filter domain.FineFilter) *domain.Snapshot {
	now := s.now().UTC()
	logger.EnterMethod("analyticsService.Snapshot", "top", s.topDefaulters, "recent", s.recentActivity)

	snap, err := s.collect(ctx, filter, now)
	if err != nil {
		logger.ErrorContext(ctx, "Snapshot aggregation failed, returning zero values", "error", err)
		metrics.AggregationFailures.WithLabelValues("snapshot").Inc()
		return domain.EmptySnapshot(now)
	}

	logger.ExitMethod("analyticsService.Snapshot", "defaulters", len(snap.TopDefaulters), "activity", len(snap.RecentActivity))
	return snap
}

func (s *analyticsService) collect(ctx context.Context, filter domain.FineFilter, now time.Time) (*domain.Snapshot, error) {
	snap := domain.EmptySnapshot(now)
	var err error

	if snap.TotalBooks, err = s.stats.CountBooks(ctx); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	if snap.AvailableBooks, err = s.stats.CountAvailableBooks(ctx); err != nil {
		return nil, fmt.Errorf("count available books: %w", err)
	}
	snap.BorrowedBooks = snap.TotalBooks - snap.AvailableBooks

	if snap.TotalMembers, err = s.stats.CountMembers(ctx); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	if snap.TotalFines, err = s.stats.SumFines(ctx, filter.WithStatus(domain.FineStatusAll)); err != nil {
		return nil, fmt.Errorf("sum fines: %w", err)
	}
	if snap.PaidFines, err = s.stats.SumFines(ctx, filter.WithStatus(domain.FineStatusPaid)); err != nil {
		return nil, fmt.Errorf("sum paid fines: %w", err)
	}
	snap.UnpaidFines = snap.TotalFines.Sub(snap.PaidFines)
	snap.CollectionRate = domain.CollectionRate(snap.PaidFines, snap.TotalFines)

	if s.topDefaulters > 0 {
		defaulters, err := s.stats.TopDefaulters(ctx, filter, s.topDefaulters)
		if err != nil {
			return nil, fmt.Errorf("rank defaulters: %w", err)
		}
		snap.TopDefaulters = rankDefaulters(defaulters, s.topDefaulters)
	}

	if s.recentActivity > 0 {
		recent, err := s.stats.RecentHistory(ctx, s.recentActivity)
		if err != nil {
			return nil, fmt.Errorf("recent history: %w", err)
		}
		snap.RecentActivity = recent
	}

	return snap, nil
}

// rankDefaulters orders by unpaid total descending with member id as the
// tie-break and keeps the first n.
func rankDefaulters(in []domain.Defaulter, n int) []domain.Defaulter {
	out := make([]domain.Defaulter, 0, len(in))
	for _, d := range in {
		if d.UnpaidTotal.IsPositive() {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].UnpaidTotal.Cmp(out[j].UnpaidTotal); c != 0 {
			return c > 0
		}
		return out[i].MemberID < out[j].MemberID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
