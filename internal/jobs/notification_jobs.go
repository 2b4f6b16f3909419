package jobs

import (
	"context"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
)

// SendFineReminders emails every member who owes money
func (jr *JobRunner) SendFineReminders() error {
	return jr.runWithRecovery(JobSendFineReminders, func(ctx context.Context) error {
		if jr.services.Email == nil {
			logger.Warn("Email is not configured, skipping fine reminders")
			return nil
		}
		sent, failed, err := jr.sendFineReminders(ctx)
		if err != nil {
			return err
		}
		logger.Info("Sent fine reminders", "sent", sent, "failed", failed)
		if sent == 0 && failed > 0 {
			return fmt.Errorf("all %d fine reminders failed", failed)
		}
		return nil
	})
}

func (jr *JobRunner) sendFineReminders(ctx context.Context) (sent, failed int, err error) {
	defaulters, err := jr.repos.Stats.TopDefaulters(ctx, domain.FineFilter{}, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("list members with unpaid fines: %w", err)
	}

	for _, d := range defaulters {
		if d.Email == "" {
			logger.Debug("Skipping reminder for member without email", "memberID", d.MemberID)
			continue
		}
		// Covered by payments but not yet settled; reconcile-fines closes these.
		if !d.Outstanding.IsPositive() {
			logger.Debug("Skipping reminder for member with nothing left to pay", "memberID", d.MemberID)
			continue
		}
		if err := jr.services.Email.SendFineReminder(ctx, d.Email, d.Name, d.Outstanding, d.FineCount); err != nil {
			logger.Error("Failed to send fine reminder", "memberID", d.MemberID, "error", err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}
