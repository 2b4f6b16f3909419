package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"library-fines-backend/internal/config"
	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/jobs"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository/postgres"
	"library-fines-backend/internal/scheduler"
	"library-fines-backend/internal/service"

	_ "github.com/lib/pq"
)

const allNightly = "all-nightly"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'assess-overdue-fines', 'send-fine-reminders', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Fines Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	var emailService service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailService = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, cfg.Library.CurrencySymbol)
	} else {
		logger.Warn("SendGrid API key not set, fine reminders are disabled")
	}

	settingsService := service.NewSettingsService(store.SettingsRepository, domain.Settings{
		FineRate:      cfg.FineRate(),
		MaxBorrowDays: cfg.Library.MaxBorrowDays,
		AppVersion:    cfg.Library.AppVersion,
	})

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobs.RepositoriesFrom(store), &jobs.Services{
		Email:    emailService,
		Settings: settingsService,
	}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	if jobName == allNightly {
		return jobRunner.RunAllNightlyJobs()
	}
	return jobRunner.Run(jobName)
}
