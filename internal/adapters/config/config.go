package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Classifier ClassifierConfig `envconfig:"CLASSIFIER"`
	Movers     MoversConfig     `envconfig:"MOVERS"`
	Feed       FeedConfig       `envconfig:"FEED"`
	Store      StoreConfig      `envconfig:"STORE"`
	Database   DatabaseConfig   `envconfig:"DATABASE"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Telegram   TelegramConfig   `envconfig:"TELEGRAM"`
	Brief      BriefConfig      `envconfig:"BRIEF"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
}

// ClassifierConfig represents movement classification tuning.
// Defaults match the values the scoring rules were calibrated with.
type ClassifierConfig struct {
	DominanceRatio    float64 `envconfig:"CLASSIFIER_DOMINANCE_RATIO" default:"1.5"`
	ConfidenceDivisor float64 `envconfig:"CLASSIFIER_CONFIDENCE_DIVISOR" default:"5.0"`
	MixedNewsCap      float64 `envconfig:"CLASSIFIER_MIXED_NEWS_CAP" default:"0.7"`
	VocabFile         string  `envconfig:"CLASSIFIER_VOCAB_FILE" required:"false"`
}

// MoversConfig represents significant-mover detection parameters
type MoversConfig struct {
	ThresholdPercent float64 `envconfig:"MOVERS_THRESHOLD_PERCENT" default:"2.0"`
}

// FeedConfig represents the location of the daily snapshot and news
// files produced by the retrieval collaborators
type FeedConfig struct {
	Dir string `envconfig:"FEED_DIR" default:"feed"`
}

// StoreConfig represents performance state persistence settings
type StoreConfig struct {
	Backend    string `envconfig:"STORE_BACKEND" default:"file"` // file or postgres
	DataDir    string `envconfig:"STORE_DATA_DIR" default:"data"`
	HistoryCap int    `envconfig:"STORE_HISTORY_CAP" default:"100"`
}

// DatabaseConfig represents PostgreSQL connection parameters
// (used only when the postgres store backend is selected)
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"marketbrief"`
	User     string `envconfig:"DB_USER" required:"false"`
	Password string `envconfig:"DB_PASSWORD" required:"false"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// ClickHouseConfig represents the optional metrics sink
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database string `envconfig:"CLICKHOUSE_DATABASE" default:"marketbrief"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD" required:"false"`
}

// TelegramConfig represents the optional brief notification channel
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// BriefConfig represents daily run scheduling
type BriefConfig struct {
	Daemon   bool          `envconfig:"BRIEF_DAEMON" default:"false"`
	Interval time.Duration `envconfig:"BRIEF_INTERVAL" default:"24h"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Classifier.DominanceRatio <= 1.0 {
		return fmt.Errorf("dominance_ratio must be greater than 1.0")
	}
	if c.Classifier.ConfidenceDivisor <= 0 {
		return fmt.Errorf("confidence_divisor must be positive")
	}
	if c.Classifier.MixedNewsCap <= 0 || c.Classifier.MixedNewsCap > 1.0 {
		return fmt.Errorf("mixed_news_cap must be in (0, 1]")
	}

	if c.Movers.ThresholdPercent <= 0 {
		return fmt.Errorf("movers threshold_percent must be positive")
	}

	switch c.Store.Backend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	if c.Store.Backend == "postgres" && c.Database.User == "" {
		return fmt.Errorf("db_user is required for the postgres store backend")
	}
	if c.Store.HistoryCap < 1 {
		return fmt.Errorf("history_cap must be at least 1")
	}

	if c.Brief.Daemon && c.Brief.Interval < time.Minute {
		return fmt.Errorf("brief interval must be at least 1m in daemon mode")
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetDSN returns ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}
