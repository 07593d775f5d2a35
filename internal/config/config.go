package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Config holds the storefront service configuration, loaded from
// environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8012"`

	// Downstream services
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8001"`
	CartServiceURL    string `env:"CART_SERVICE_URL" envDefault:"http://localhost:8002"`

	HTTPClientTimeout     time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	CircuitBreakerEnabled bool          `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"true"`

	// Session identity persistence: redis, file or memory.
	SessionStore    string `env:"SESSION_STORE" envDefault:"file"`
	SessionFilePath string `env:"SESSION_FILE_PATH" envDefault:".storefront/cart_id"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Activity events
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"" envSeparator:","`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	switch c.SessionStore {
	case "redis", "file", "memory":
	default:
		return fmt.Errorf("invalid session store %q: must be redis, file or memory", c.SessionStore)
	}

	if c.SessionStore == "file" && c.SessionFilePath == "" {
		return fmt.Errorf("session file path is required for the file session store")
	}

	if c.CatalogServiceURL == "" {
		return fmt.Errorf("catalog service URL is required")
	}
	if c.CartServiceURL == "" {
		return fmt.Errorf("cart service URL is required")
	}

	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("invalid OTEL sample rate: %f", c.OTELSampleRate)
	}

	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
