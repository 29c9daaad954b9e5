package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")

	cfg := ConfigFromEnv("shop-api")
	require.Equal(t, "shop-api", cfg.ServiceName)
	require.Equal(t, "staging", cfg.Environment)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	require.False(t, cfg.OTLPInsecure)
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("t"))
	require.NotNil(t, instruments.Meter("m"))
}
