package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	RateLimit   RateLimitConfig
	Watcher     WatcherConfig
	RecordStore RecordStoreConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// WatcherConfig holds validation watcher configuration
type WatcherConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	FolderID     string        `mapstructure:"folder_id"`
	DocumentRoot string        `mapstructure:"document_root"`
	ProcessedCap int           `mapstructure:"processed_cap"`
	ResultsDir   string        `mapstructure:"results_dir"`
	OrderExport  string        `mapstructure:"order_export"`
	PdfToText    string        `mapstructure:"pdftotext"`
}

// RecordStoreConfig holds remote record store configuration
type RecordStoreConfig struct {
	MongoURI   string        `mapstructure:"mongo_uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/palletwise/")

	v.SetEnvPrefix("PALLETWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover the rest
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("watcher.poll_interval", "5m")
	v.SetDefault("watcher.document_root", "./documents")
	v.SetDefault("watcher.processed_cap", 500)
	v.SetDefault("watcher.results_dir", "./results")
	v.SetDefault("watcher.order_export", "./orders.json")
	v.SetDefault("watcher.pdftotext", "")

	v.SetDefault("recordstore.mongo_uri", "")
	v.SetDefault("recordstore.database", "palletwise")
	v.SetDefault("recordstore.collection", "validation_records")
	v.SetDefault("recordstore.timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.development", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}
	if config.Watcher.PollInterval <= 0 {
		return fmt.Errorf("watcher.poll_interval must be positive, got: %s", config.Watcher.PollInterval)
	}
	if config.Watcher.ProcessedCap <= 0 {
		return fmt.Errorf("watcher.processed_cap must be positive, got: %d", config.Watcher.ProcessedCap)
	}
	if config.Watcher.ResultsDir == "" {
		return fmt.Errorf("watcher.results_dir is required")
	}
	return nil
}
