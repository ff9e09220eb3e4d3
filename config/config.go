package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Cache      Cache      `mapstructure:"cache"`
	Redis      Redis      `mapstructure:"redis"`
	MarketData MarketData `mapstructure:"market_data"`
	Prediction Prediction `mapstructure:"prediction"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port               int           `mapstructure:"port"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	LiveInterval       time.Duration `mapstructure:"live_interval"`
}

type Cache struct {
	// Driver is either "memory" or "redis".
	Driver            string        `mapstructure:"driver"`
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	HistoryTTL        time.Duration `mapstructure:"history_ttl"`
	PriceTTL          time.Duration `mapstructure:"price_ttl"`
	PredictionTTL     time.Duration `mapstructure:"prediction_ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	VsCurrency          string        `mapstructure:"vs_currency"`
	HistoryDays         int           `mapstructure:"history_days"`
}

type Prediction struct {
	// Seed makes long horizon projections reproducible. Zero seeds from the clock.
	Seed       int64 `mapstructure:"seed"`
	YearsAhead int   `mapstructure:"years_ahead"`
	// Bullish toggles the optimistic skew applied before scoring.
	Bullish bool `mapstructure:"bullish"`
}

type Scheduler struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
	YearlyCron      string        `mapstructure:"yearly_cron"`
	TopTokens       int           `mapstructure:"top_tokens"`
	CleanupCron     string        `mapstructure:"cleanup_cron"`
	RetentionDays   int           `mapstructure:"retention_days"`
	Enabled         bool          `mapstructure:"enabled"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	InsightTTL          time.Duration `mapstructure:"insight_ttl"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.rate_limit_per_second", 10)
	viper.SetDefault("api.rate_limit_burst", 30)
	viper.SetDefault("api.live_interval", "15s")
	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("cache.default_expiration", "5m")
	viper.SetDefault("cache.cleanup_interval", "10m")
	viper.SetDefault("cache.history_ttl", "10m")
	viper.SetDefault("cache.price_ttl", "30s")
	viper.SetDefault("cache.prediction_ttl", "5m")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("market_data.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("market_data.timeout", "10s")
	viper.SetDefault("market_data.max_request_per_minute", 30)
	viper.SetDefault("market_data.vs_currency", "usd")
	viper.SetDefault("market_data.history_days", 90)
	viper.SetDefault("prediction.years_ahead", 10)
	viper.SetDefault("prediction.bullish", true)
	viper.SetDefault("scheduler.max_concurrency", 4)
	viper.SetDefault("scheduler.timeout_duration", "30m")
	viper.SetDefault("scheduler.yearly_cron", "0 3 * * *")
	viper.SetDefault("scheduler.top_tokens", 100)
	viper.SetDefault("scheduler.cleanup_cron", "30 4 * * 0")
	viper.SetDefault("scheduler.retention_days", 30)
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", "30s")
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 100000)
	viper.SetDefault("gemini.insight_ttl", "24h")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
