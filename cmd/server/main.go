package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "library-fines-backend/internal/api/grpc"
	httpapi "library-fines-backend/internal/api/http"
	"library-fines-backend/internal/config"
	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/jobs"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/render"
	"library-fines-backend/internal/report"
	"library-fines-backend/internal/repository/postgres"
	"library-fines-backend/internal/scheduler"
	"library-fines-backend/internal/security"
	"library-fines-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("with-scheduler", false, "Run the nightly jobs inside the server process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Fines Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http", cfg.GetServerAddress(), "grpc", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.TokenExpiry())

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, cfg.Auth.AllowLoginUpsert)
	settingsSvc := service.NewSettingsService(store.SettingsRepository, domain.Settings{
		FineRate:      cfg.FineRate(),
		MaxBorrowDays: cfg.Library.MaxBorrowDays,
		AppVersion:    cfg.Library.AppVersion,
	})
	analyticsSvc := service.NewAnalyticsService(store.StatsRepository, cfg.Reports.TopDefaulters, cfg.Reports.RecentActivity)
	reportSvc := service.NewReportService(
		analyticsSvc,
		store.HistoryRepository,
		store.FineRepository,
		report.NewBuilder(cfg.Library.CurrencySymbol),
		render.NewPDFRenderer().WithUTF8Font(cfg.Reports.UnicodeFont),
	)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := authSvc.EnsureAdmin(startupCtx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Error("Failed to bootstrap admin account", "error", err)
	}
	if err := settingsSvc.SeedDefaults(startupCtx); err != nil {
		logger.Error("Failed to seed library settings", "error", err)
	}
	cancelStartup()

	server := httpapi.NewServer(httpapi.Services{
		Auth:        authSvc,
		Members:     service.NewMemberService(store.MemberRepository),
		Books:       service.NewBookService(store.BookRepository),
		Fines:       service.NewFineService(store.FineRepository, store.MemberRepository),
		Circulation: service.NewCirculationService(store.HistoryRepository),
		Analytics:   analyticsSvc,
		Reports:     reportSvc,
		Settings:    settingsSvc,
	}, tokenManager, db, cfg.JWT.CookieName, cfg.TokenExpiry())

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// gRPC health endpoint for orchestration probes
	var healthServer *grpcapi.HealthServer
	if cfg.Server.GRPCPort > 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		healthServer = grpcapi.NewHealthServer(db, 15*time.Second)
		go func() {
			if err := healthServer.Serve(ctx, lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		var emailSvc service.EmailService
		if cfg.SendGrid.APIKey != "" {
			emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, cfg.Library.CurrencySymbol)
		}
		jobRunner := jobs.NewJobRunner(jobs.RepositoriesFrom(store), &jobs.Services{
			Email:    emailSvc,
			Settings: settingsSvc,
		}, cfg)
		cronScheduler = scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
	}

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if healthServer != nil {
		healthServer.Stop()
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
