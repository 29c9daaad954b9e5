package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// DefaultOrderTopic receives order lifecycle events when Kafka is configured.
const DefaultOrderTopic = "shop.orders"

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	PostgresDSN       string
	AutoMigrate       bool
	TxMaxAttempts     int
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	KafkaBrokers      string
	KafkaOrderTopic   string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AutoMigrate:       !isFalsy(os.Getenv("AUTO_MIGRATE")),
		TxMaxAttempts:     3,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   envDefault("KAFKA_ORDER_TOPIC", DefaultOrderTopic),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("TX_MAX_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("TX_MAX_ATTEMPTS must be a positive integer")
		}
		cfg.TxMaxAttempts = attempts
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func isFalsy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "0" || value == "false" || value == "no"
}
