package api

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "POSTGRES_DSN", "AUTO_MIGRATE", "TX_MAX_ATTEMPTS", "TEMPORAL_ADDRESS",
		"TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "KAFKA_BROKERS", "KAFKA_ORDER_TOPIC"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.True(t, cfg.AutoMigrate)
	require.Equal(t, 3, cfg.TxMaxAttempts)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, DefaultOrderTopic, cfg.KafkaOrderTopic)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("TX_MAX_ATTEMPTS", "5")
	t.Setenv("TEMPORAL_DISABLED", "yes")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_ORDER_TOPIC", "orders.v2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.False(t, cfg.AutoMigrate)
	require.Equal(t, 5, cfg.TxMaxAttempts)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, "k1:9092,k2:9092", cfg.KafkaBrokers)
	require.Equal(t, "orders.v2", cfg.KafkaOrderTopic)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TX_MAX_ATTEMPTS", "0")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("TX_MAX_ATTEMPTS", "")
	t.Setenv("PORT", "http")
	_, err = LoadConfig()
	require.Error(t, err)
}
