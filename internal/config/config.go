package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard service
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	API       APIConfig       `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Cache     CacheConfig     `mapstructure:",squash"`
	View      ViewConfig      `mapstructure:",squash"`
	Refresher RefresherConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

// APIConfig locates the external loan API. BaseURL is the single source of
// truth for the service location; both the query client and the payment
// client derive their endpoints from it.
type APIConfig struct {
	BaseURL string `mapstructure:"API_BASE_URL"`
	Timeout string `mapstructure:"API_TIMEOUT"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type CacheConfig struct {
	TTL string `mapstructure:"CACHE_TTL"`
}

type ViewConfig struct {
	DefaultPageSize int    `mapstructure:"DEFAULT_PAGE_SIZE"`
	NotificationTTL string `mapstructure:"NOTIFICATION_TTL"`
}

type RefresherConfig struct {
	Schedule string `mapstructure:"REFRESH_SCHEDULE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("API_TIMEOUT", "10s")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("DEFAULT_PAGE_SIZE", 5)
	viper.SetDefault("NOTIFICATION_TTL", "1200ms")
	viper.SetDefault("REFRESH_SCHEDULE", "0 */5 * * * *")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("API_BASE_URL must be a valid URL: %w", err)
	}

	switch c.View.DefaultPageSize {
	case 5, 10, 25:
	default:
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be one of 5, 10, 25")
	}

	for key, value := range map[string]string{
		"SERVER_READ_TIMEOUT":  c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": c.Server.WriteTimeout,
		"API_TIMEOUT":          c.API.Timeout,
		"CACHE_TTL":            c.Cache.TTL,
		"NOTIFICATION_TTL":     c.View.NotificationTTL,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetAPITimeout returns the upstream request timeout as duration
func (c *Config) GetAPITimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.API.Timeout)
	return timeout
}

// GetCacheTTL returns the query cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Cache.TTL)
	return ttl
}

// GetNotificationTTL returns how long a notification stays visible
func (c *Config) GetNotificationTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.View.NotificationTTL)
	return ttl
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ReadTimeout)
	return timeout
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.WriteTimeout)
	return timeout
}
