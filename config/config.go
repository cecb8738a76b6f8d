package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	VariantMapper VariantMapperConfig `mapstructure:"variant_mapper"`
	Import        ImportConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"; empty picks by environment
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// VariantMapperConfig configures the optional remote variant-mapping service
type VariantMapperConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// Enabled reports whether a mapping service is configured
func (c VariantMapperConfig) Enabled() bool {
	return c.BaseURL != ""
}

// ImportConfig holds bulk import limits
type ImportConfig struct {
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	MaxBatchSize     int `mapstructure:"max_batch_size"`
	MaxUploadMB      int `mapstructure:"max_upload_mb"`
}

// Load loads configuration from a .env file, environment variables and config files.
// Precedence: environment, then config file, then defaults.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/catalog/")

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
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

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	v.SetDefault("ratelimit.per_ip", 120)

	v.SetDefault("variant_mapper.base_url", "")
	v.SetDefault("variant_mapper.api_key", "")
	v.SetDefault("variant_mapper.timeout", "10s")
	v.SetDefault("variant_mapper.requests_per_second", 5.0)

	v.SetDefault("import.batch_concurrency", 8)
	v.SetDefault("import.max_batch_size", 500)
	v.SetDefault("import.max_upload_mb", 10)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis' (set CATALOG_CACHE_REDIS_URL)")
	}

	if config.Log.Format != "" && config.Log.Format != "json" && config.Log.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Import.BatchConcurrency <= 0 {
		return fmt.Errorf("import.batch_concurrency must be positive, got: %d", config.Import.BatchConcurrency)
	}

	if config.Import.MaxBatchSize <= 0 {
		return fmt.Errorf("import.max_batch_size must be positive, got: %d", config.Import.MaxBatchSize)
	}

	if config.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("import.max_upload_mb must be positive, got: %d", config.Import.MaxUploadMB)
	}

	if config.VariantMapper.Enabled() && config.VariantMapper.RequestsPerSecond <= 0 {
		return fmt.Errorf("variant_mapper.requests_per_second must be positive when base_url is set")
	}

	return nil
}
