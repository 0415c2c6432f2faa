package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Store     StoreConfig
	Scraper   ScraperConfig
	Sheets    SheetsConfig
	SMTP      SMTPConfig
	Archive   ArchiveConfig
	Scheduler SchedulerConfig

	// RescheduleInterval is added to a successful run's start time to
	// produce the job's next_run timestamp.
	RescheduleInterval time.Duration

	JobsDir string
	LogPath string
}

type StoreConfig struct {
	Backend     string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string
}

type ScraperConfig struct {
	NavTimeout      time.Duration
	SettleDelay     time.Duration
	ScrollStep      int
	ScrollPause     time.Duration
	MaxScrollPasses int
	RetryCeiling    int
	RetryDelay      time.Duration
	UserAgent       string
	Headless        bool
}

type SheetsConfig struct {
	CredentialsFile string
	DefaultTitle    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ArchiveConfig points snapshot archival at an S3-compatible bucket.
// An empty bucket disables archival.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type SchedulerConfig struct {
	Cron     string
	Interval time.Duration
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Store: StoreConfig{
			Backend:     getEnv("JOB_STORE", "sqlite"),
			SQLitePath:  getEnv("DB_PATH", "jobs.db"),
			PostgresURL: os.Getenv("DATABASE_URL"),
		},
		Scraper: ScraperConfig{
			NavTimeout:      getEnvDuration("NAV_TIMEOUT", 60*time.Second),
			SettleDelay:     getEnvDuration("SETTLE_DELAY", 3*time.Second),
			ScrollStep:      getEnvInt("SCROLL_STEP", 800),
			ScrollPause:     getEnvDuration("SCROLL_PAUSE", 500*time.Millisecond),
			MaxScrollPasses: getEnvInt("MAX_SCROLL_PASSES", 40),
			RetryCeiling:    getEnvInt("RETRY_CEILING", 3),
			RetryDelay:      getEnvDuration("RETRY_DELAY", 5*time.Second),
			UserAgent:       getEnv("USER_AGENT", defaultUserAgent),
			Headless:        getEnv("HEADLESS", "true") == "true",
		},
		Sheets: SheetsConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			DefaultTitle:    getEnv("SHEET_TITLE", "Listing Tracker"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", os.Getenv("SMTP_USERNAME")),
		},
		Archive: ArchiveConfig{
			Bucket:          os.Getenv("ARCHIVE_BUCKET"),
			Region:          getEnv("ARCHIVE_REGION", "us-east-1"),
			Endpoint:        os.Getenv("ARCHIVE_ENDPOINT"),
			AccessKeyID:     os.Getenv("ARCHIVE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("ARCHIVE_SECRET_ACCESS_KEY"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SWEEP_CRON"),
		},
		RescheduleInterval: getEnvDuration("RESCHEDULE_INTERVAL", 30*time.Minute),
		JobsDir:            getEnv("JOBS_DIR", "config/jobs"),
		LogPath:            getEnv("LOG_PATH", "daemon.log"),
	}

	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
