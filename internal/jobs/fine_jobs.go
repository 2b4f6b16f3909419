package jobs

import (
	"context"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/utils"
)

// AssessOverdueFines charges members for books kept past the loan period
func (jr *JobRunner) AssessOverdueFines() error {
	return jr.runWithRecovery(JobAssessOverdueFines, func(ctx context.Context) error {
		written, err := jr.assessOverdueFines(ctx)
		if err != nil {
			return err
		}
		logger.Info("Assessed overdue fines", "written", written)
		return nil
	})
}

func (jr *JobRunner) assessOverdueFines(ctx context.Context) (int, error) {
	settings, err := jr.services.Settings.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load settings: %w", err)
	}

	now := jr.now().UTC()
	cutoff := now.AddDate(0, 0, -settings.MaxBorrowDays)
	open, err := jr.repos.History.ListOpenBorrowsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list open borrows: %w", err)
	}

	written := 0
	for _, borrow := range open {
		days := utils.OverdueDays(borrow.Timestamp, now, settings.MaxBorrowDays)
		amount := utils.OverdueFine(settings.FineRate, days)
		if amount.IsZero() {
			continue
		}

		source := borrow.ID
		fine := &domain.Fine{
			MemberID:        borrow.MemberID,
			Amount:          amount,
			Reason:          fmt.Sprintf("Late return (history #%d, %d days overdue)", borrow.ID, days),
			SourceHistoryID: &source,
		}
		ok, err := jr.repos.Fines.UpsertForHistory(ctx, fine)
		if err != nil {
			// Keep going; one bad row must not block the rest of the run.
			logger.Error("Failed to assess overdue fine", "historyID", borrow.ID, "error", err)
			continue
		}
		if ok {
			written++
			logger.Debug("Overdue fine written", "historyID", borrow.ID, "memberID", borrow.MemberID,
				"days", days, "amount", amount.StringFixed(2))
		}
	}
	return written, nil
}

// ReconcileFines settles fines whose payments already cover them
func (jr *JobRunner) ReconcileFines() error {
	return jr.runWithRecovery(JobReconcileFines, func(ctx context.Context) error {
		n, err := jr.repos.Fines.ReconcilePaidFlags(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Warn("Reconciled fine paid flags that had drifted", "count", n)
		}
		return nil
	})
}

// SyncBookAvailability rebuilds books.available from the history log
func (jr *JobRunner) SyncBookAvailability() error {
	return jr.runWithRecovery(JobSyncBookAvailability, func(ctx context.Context) error {
		n, err := jr.repos.Books.SyncAvailability(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Warn("Repaired book availability flags", "count", n)
		}
		return nil
	})
}
