package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Library   LibraryConfig   `yaml:"library"`
	Reports   ReportsConfig   `yaml:"reports"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC health listener settings
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	GRPCPort            int    `yaml:"grpc_port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
	CookieName        string `yaml:"cookie_name"`
}

// AuthConfig controls librarian login behaviour.
//
// AllowLoginUpsert turns on the legacy policy where an unknown username is
// created on first login and a wrong password replaces the stored one.
// It is off unless explicitly enabled.
type AuthConfig struct {
	AdminUsername    string `yaml:"admin_username"`
	AdminPassword    string `yaml:"admin_password"`
	AllowLoginUpsert bool   `yaml:"allow_login_upsert"`
}

// LibraryConfig holds the default circulation settings. Values persisted in
// the settings table take precedence at runtime.
type LibraryConfig struct {
	FineRatePerDay string `yaml:"fine_rate_per_day"`
	MaxBorrowDays  int    `yaml:"max_borrow_days"`
	AppVersion     string `yaml:"app_version"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// ReportsConfig contains report sizing settings. UnicodeFont is an
// optional TrueType file embedded in PDFs; without it reports use the core
// Helvetica font, which only prints cp1252 text.
type ReportsConfig struct {
	TopDefaulters  int    `yaml:"top_defaulters"`
	RecentActivity int    `yaml:"recent_activity"`
	UnicodeFont    string `yaml:"unicode_font"`
}

// SendGridConfig contains email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	AssessOverdueFines   string `yaml:"assess_overdue_fines"`
	ReconcileFines       string `yaml:"reconcile_fines"`
	SyncBookAvailability string `yaml:"sync_book_availability"`
	SendFineReminders    string `yaml:"send_fine_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		setInt(&c.Database.Port, val)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Auth
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Auth.AdminPassword = val
	}
	if val := os.Getenv("ALLOW_LOGIN_UPSERT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Auth.AllowLoginUpsert = b
		}
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		setInt(&c.Server.Port, val)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		setInt(&c.Server.GRPCPort, val)
	}

	// Reports
	if val := os.Getenv("REPORTS_UNICODE_FONT"); val != "" {
		c.Reports.UnicodeFont = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func setInt(dst *int, val string) {
	if n, err := strconv.Atoi(val); err == nil {
		*dst = n
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = "library_session"
	}

	if c.Auth.AdminUsername == "" {
		c.Auth.AdminUsername = "admin"
	}

	// Library defaults mirror the original settings page
	if c.Library.FineRatePerDay == "" {
		c.Library.FineRatePerDay = "5.00"
	}
	rate, err := decimal.NewFromString(c.Library.FineRatePerDay)
	if err != nil {
		return fmt.Errorf("invalid fine rate %q: %w", c.Library.FineRatePerDay, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("fine rate must not be negative")
	}
	if c.Library.MaxBorrowDays == 0 {
		c.Library.MaxBorrowDays = 14
	}
	if c.Library.MaxBorrowDays < 0 {
		return fmt.Errorf("invalid max borrow days: %d", c.Library.MaxBorrowDays)
	}
	if c.Library.AppVersion == "" {
		c.Library.AppVersion = "1.0.2"
	}
	if c.Library.CurrencySymbol == "" {
		c.Library.CurrencySymbol = "Rs."
	}

	if c.Reports.TopDefaulters <= 0 {
		c.Reports.TopDefaulters = 10
	}
	if c.Reports.RecentActivity <= 0 {
		c.Reports.RecentActivity = 10
	}

	if c.Scheduler.AssessOverdueFines == "" {
		c.Scheduler.AssessOverdueFines = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.ReconcileFines == "" {
		c.Scheduler.ReconcileFines = "0 30 1 * * *" // 1:30 AM UTC
	}
	if c.Scheduler.SyncBookAvailability == "" {
		c.Scheduler.SyncBookAvailability = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendFineReminders == "" {
		c.Scheduler.SendFineReminders = "0 0 9 * * MON" // Mondays at 9 AM UTC
	}

	return nil
}

// FineRate returns the configured default fine per overdue day.
// Validate has already checked the value parses.
func (c *Config) FineRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Library.FineRatePerDay)
	return rate
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the gRPC health server address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// TokenExpiry returns the lifetime of librarian session tokens
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
