package scheduler

import (
	"time"

	"library-fines-backend/internal/jobs"
	"library-fines-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler. An
// empty schedule leaves that job disabled.
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	schedules := []struct {
		name string
		spec string
		run  func() error
	}{
		{jobs.JobSyncBookAvailability, cfg.SyncBookAvailability, s.jobs.SyncBookAvailability},
		{jobs.JobAssessOverdueFines, cfg.AssessOverdueFines, s.jobs.AssessOverdueFines},
		{jobs.JobReconcileFines, cfg.ReconcileFines, s.jobs.ReconcileFines},
		{jobs.JobSendFineReminders, cfg.SendFineReminders, s.jobs.SendFineReminders},
	}

	registered := 0
	for _, job := range schedules {
		if job.spec == "" {
			logger.Info("Cron job disabled", "job", job.name)
			continue
		}
		run := job.run
		// Failures are already logged and counted by the runner.
		if _, err := s.cron.AddFunc(job.spec, func() { _ = run() }); err != nil {
			logger.Error("Failed to register cron job", "job", job.name, "schedule", job.spec, "error", err)
			continue
		}
		registered++
	}

	logger.Info("Cron jobs registered", "count", registered)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
