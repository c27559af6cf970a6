package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/bhanu79755/Shopbuy/pkg/config"
)

// Override store backends.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort    int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Image override store
	OverrideBackend string `env:"OVERRIDE_STORE" envDefault:"redis"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"shopbuy"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"shopbuy"`
	DBName     string `env:"DB_NAME" envDefault:"shopbuy"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Kafka; no brokers disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Recommendation service
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	AICallTimeout     time.Duration `env:"AI_CALL_TIMEOUT" envDefault:"10s"`
	RecommendDebounce time.Duration `env:"RECOMMEND_DEBOUNCE" envDefault:"500ms"`

	BreakerTimeout      time.Duration `env:"AI_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerMinRequests  uint32        `env:"AI_BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerFailureRatio float64       `env:"AI_BREAKER_FAILURE_RATIO" envDefault:"0.5"`

	AIRateLimitRPS   float64 `env:"AI_RATE_LIMIT_RPS" envDefault:"2"`
	AIRateLimitBurst int     `env:"AI_RATE_LIMIT_BURST" envDefault:"5"`

	// Sessions
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load shopbuy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from the given variables only.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, environ); err != nil {
		return nil, fmt.Errorf("load shopbuy config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KafkaEnabled reports whether events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.OverrideBackend {
	case BackendRedis, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("invalid OVERRIDE_STORE %q: must be redis, postgres or memory", c.OverrideBackend)
	}
	if c.AICallTimeout <= 0 {
		return fmt.Errorf("AI_CALL_TIMEOUT must be positive")
	}
	if c.RecommendDebounce < 0 {
		return fmt.Errorf("RECOMMEND_DEBOUNCE must not be negative")
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("AI_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio)
	}
	if c.AIRateLimitRPS <= 0 || c.AIRateLimitBurst < 1 {
		return fmt.Errorf("AI rate limit must be positive")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	return nil
}
