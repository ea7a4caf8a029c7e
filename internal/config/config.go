package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Attendance AttendanceConfig
	Jobs       JobsConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	PingTimeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// SMTPConfig holds outbound email configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AttendanceConfig holds the employer's attendance policy: office geofence,
// working days, scheduled start time and lateness threshold.
type AttendanceConfig struct {
	OfficeLatitude     float64
	OfficeLongitude    float64
	OfficeRadiusMeters float64
	WorkingDays        []time.Weekday
	WorkStart          string // "15:04"
	LateThresholdMins  int
	OnsiteDays         []time.Weekday
	ReminderTime       string // "15:04"
	SweepHour          int    // local hour the absence sweep is allowed to run
	Timezone           string
}

// JobsConfig holds scheduler settings and the cron endpoint secret.
type JobsConfig struct {
	CronSecret           string
	ReminderPollInterval time.Duration
	SweepPollInterval    time.Duration
	CleanupInterval      time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the platform.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	dbPingTimeout, err := time.ParseDuration(getEnv("DB_PING_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PING_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "simplified_hrm"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(dbMaxConns),
		MinConns:    int32(dbMinConns),
		PingTimeout: dbPingTimeout,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@simplified-hrm.local"),
		FromName: getEnv("SMTP_FROM_NAME", "Simplified HRM"),
	}

	// Attendance policy
	officeLat, err := strconv.ParseFloat(getEnv("OFFICE_LATITUDE", "6.5244"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LATITUDE: %w", err)
	}
	officeLon, err := strconv.ParseFloat(getEnv("OFFICE_LONGITUDE", "3.3792"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_LONGITUDE: %w", err)
	}
	officeRadius, err := strconv.ParseFloat(getEnv("OFFICE_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_RADIUS_METERS: %w", err)
	}
	lateThreshold, err := strconv.Atoi(getEnv("LATE_THRESHOLD_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_THRESHOLD_MINUTES: %w", err)
	}
	sweepHour, err := strconv.Atoi(getEnv("ABSENCE_SWEEP_HOUR", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_SWEEP_HOUR: %w", err)
	}

	workingDays, err := parseWeekdays(getEnv("WORK_DAYS", "mon,tue,wed,thu,fri"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORK_DAYS: %w", err)
	}
	onsiteDays, err := parseWeekdays(getEnv("ONSITE_DAYS", "mon,tue,wed,thu,fri"))
	if err != nil {
		return nil, fmt.Errorf("invalid ONSITE_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		OfficeLatitude:     officeLat,
		OfficeLongitude:    officeLon,
		OfficeRadiusMeters: officeRadius,
		WorkingDays:        workingDays,
		WorkStart:          getEnv("WORK_START_TIME", "09:00"),
		LateThresholdMins:  lateThreshold,
		OnsiteDays:         onsiteDays,
		ReminderTime:       getEnv("CHECKOUT_REMINDER_TIME", "17:00"),
		SweepHour:          sweepHour,
		Timezone:           getEnv("TIMEZONE", "UTC"),
	}

	// Job scheduler configuration
	reminderPoll, err := time.ParseDuration(getEnv("REMINDER_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_POLL_INTERVAL: %w", err)
	}
	sweepPoll, err := time.ParseDuration(getEnv("SWEEP_POLL_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_POLL_INTERVAL: %w", err)
	}
	cleanupInterval, err := time.ParseDuration(getEnv("NOTIFICATION_CLEANUP_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_CLEANUP_INTERVAL: %w", err)
	}

	config.Jobs = JobsConfig{
		CronSecret:           getEnv("CRON_SECRET", ""),
		ReminderPollInterval: reminderPoll,
		SweepPollInterval:    sweepPoll,
		CleanupInterval:      cleanupInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Jobs.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET is required")
	}
	if c.Attendance.OfficeRadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}
	if _, err := time.Parse("15:04", c.Attendance.WorkStart); err != nil {
		return fmt.Errorf("WORK_START_TIME must be HH:MM: %w", err)
	}
	if _, err := time.Parse("15:04", c.Attendance.ReminderTime); err != nil {
		return fmt.Errorf("CHECKOUT_REMINDER_TIME must be HH:MM: %w", err)
	}
	if c.Attendance.SweepHour < 0 || c.Attendance.SweepHour > 23 {
		return fmt.Errorf("ABSENCE_SWEEP_HOUR must be between 0 and 23")
	}
	if len(c.Attendance.WorkingDays) == 0 {
		return fmt.Errorf("WORK_DAYS is required")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the configured attendance timezone.
func (c *AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		day, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, day)
	}
	return days, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
