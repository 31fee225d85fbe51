package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Stats provider
	BallDontLieAPIKey       string        `mapstructure:"BALLDONTLIE_API_KEY"`
	BallDontLieBaseURL      string        `mapstructure:"BALLDONTLIE_BASE_URL"`
	APIRateLimitPerMin      int           `mapstructure:"API_RATE_LIMIT_PER_MINUTE"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Caching
	StatsCacheTTL time.Duration `mapstructure:"STATS_CACHE_TTL"`
	LiveCacheTTL  time.Duration `mapstructure:"LIVE_CACHE_TTL"`

	// Live polling
	LivePollInterval  time.Duration `mapstructure:"LIVE_POLL_INTERVAL"`
	EnableLivePolling bool          `mapstructure:"ENABLE_LIVE_POLLING"`

	// Analysis
	ParlayConfidenceFloor float64 `mapstructure:"PARLAY_CONFIDENCE_FLOOR"`
	ParlayMaxLegs         int     `mapstructure:"PARLAY_MAX_LEGS"`
	BlowoutThreshold      int     `mapstructure:"BLOWOUT_THRESHOLD"`
	FoulTroubleThreshold  int     `mapstructure:"FOUL_TROUBLE_THRESHOLD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("BALLDONTLIE_API_KEY", "")
	viper.SetDefault("BALLDONTLIE_BASE_URL", "https://api.balldontlie.io/v1")
	viper.SetDefault("API_RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	viper.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	viper.SetDefault("STATS_CACHE_TTL", "1h")
	viper.SetDefault("LIVE_CACHE_TTL", "5m")
	viper.SetDefault("LIVE_POLL_INTERVAL", "30s")
	viper.SetDefault("ENABLE_LIVE_POLLING", false)
	viper.SetDefault("PARLAY_CONFIDENCE_FLOOR", 58.0)
	viper.SetDefault("PARLAY_MAX_LEGS", 3)
	viper.SetDefault("BLOWOUT_THRESHOLD", 20)
	viper.SetDefault("FOUL_TROUBLE_THRESHOLD", 4)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
