package jobs

import (
	"context"
	"fmt"
	"time"

	"library-fines-backend/internal/config"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/metrics"
	"library-fines-backend/internal/repository"
	"library-fines-backend/internal/repository/postgres"
	"library-fines-backend/internal/service"
)

// Job names accepted by the cronjob binary
const (
	JobAssessOverdueFines   = "assess-overdue-fines"
	JobReconcileFines       = "reconcile-fines"
	JobSyncBookAvailability = "sync-book-availability"
	JobSendFineReminders    = "send-fine-reminders"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    Repositories
	services *Services
	config   *config.Config
	now      func() time.Time
	timeout  time.Duration
}

// Repositories is the part of the record store the jobs touch
type Repositories struct {
	Books   repository.BookRepository
	Fines   repository.FineRepository
	History repository.HistoryRepository
	Stats   repository.StatsRepository
}

// RepositoriesFrom picks the job repositories out of a store
func RepositoriesFrom(store *postgres.Store) Repositories {
	return Repositories{
		Books:   store.BookRepository,
		Fines:   store.FineRepository,
		History: store.HistoryRepository,
		Stats:   store.StatsRepository,
	}
}

// Services holds all service dependencies needed by jobs. Email may be nil
// when SendGrid is not configured.
type Services struct {
	Email    service.EmailService
	Settings service.SettingsService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos Repositories, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
		timeout:  10 * time.Minute,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	log := logger.WithJob(jobName)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		metrics.JobRuns.WithLabelValues(jobName, result).Inc()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	log.Info("Starting job")
	if err = jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "elapsed", time.Since(start))
		return err
	}
	log.Info("Job completed", "elapsed", time.Since(start))
	return nil
}

// Run executes a single job by name
func (jr *JobRunner) Run(name string) error {
	switch name {
	case JobAssessOverdueFines:
		return jr.AssessOverdueFines()
	case JobReconcileFines:
		return jr.ReconcileFines()
	case JobSyncBookAvailability:
		return jr.SyncBookAvailability()
	case JobSendFineReminders:
		return jr.SendFineReminders()
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution). Each job
// runs even when an earlier one fails; the first error is returned.
func (jr *JobRunner) RunAllNightlyJobs() error {
	var first error
	for _, run := range []func() error{jr.SyncBookAvailability, jr.AssessOverdueFines, jr.ReconcileFines} {
		if err := run(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
