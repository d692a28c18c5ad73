package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config aggregates runtime configuration grouped by concern.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"order-lookup-gateway"`
	HTTP        HTTPConfig
	Upstreams   UpstreamsConfig
	Breaker     BreakerConfig
	Lookup      LookupConfig
	Kafka       KafkaConfig
	Telemetry   TelemetryConfig
	Log         LogConfig
	Notifier    NotifierConfig
}

type HTTPConfig struct {
	Addr string `env:"HTTP_LISTEN_ADDR" envDefault:":5000"`
}

type UpstreamsConfig struct {
	PaymentURL    string        `env:"PAYMENT_SERVICE_URL" envDefault:"http://localhost:8001"`
	InventoryURL  string        `env:"INVENTORY_SERVICE_URL" envDefault:"http://localhost:8002"`
	ShippingURL   string        `env:"SHIPPING_SERVICE_URL" envDefault:"http://localhost:8003"`
	Timeout       time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	HealthTimeout time.Duration `env:"HEALTH_TIMEOUT" envDefault:"2s"`
}

type BreakerConfig struct {
	FailureThreshold int           `env:"BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	RecoveryTimeout  time.Duration `env:"BREAKER_RECOVERY_TIMEOUT" envDefault:"30s"`
}

type LookupConfig struct {
	// LegTimeout of zero leaves each leg bounded by the upstream timeout only.
	LegTimeout time.Duration `env:"LOOKUP_LEG_TIMEOUT" envDefault:"0s"`
}

type KafkaConfig struct {
	Enabled     bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers     []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	OrdersTopic string   `env:"KAFKA_ORDERS_TOPIC" envDefault:"orders.v1"`
}

// NotifierConfig drives the order notification worker. An empty SMTPHost
// logs emails instead of sending them.
type NotifierConfig struct {
	GroupID  string `env:"NOTIFIER_GROUP_ID" envDefault:"order-notifier"`
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUser string `env:"SMTP_USERNAME"`
	SMTPPass string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@example.local"`
	Inbox    string `env:"ORDERS_INBOX" envDefault:"orders@example.local"`
}

type TelemetryConfig struct {
	Enabled  bool   `env:"TRACING_ENABLED" envDefault:"true"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" envDefault:"http://localhost:4318/v1/traces"`
}

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load reads configuration from environment variables, applying sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Breaker.FailureThreshold <= 0 {
		return Config{}, fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be positive, got %d", cfg.Breaker.FailureThreshold)
	}
	cfg.Kafka.Brokers = trimAll(cfg.Kafka.Brokers)
	return cfg, nil
}

func trimAll(parts []string) []string {
	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
