package observability

import (
	"testing"
	"time"

	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"LOG_OUTPUT", "OTEL_ENABLED", "OTEL_SAMPLING_RATIO", "METRICS_PUSH_EXPORTER", "METRICS_PUSH_JOB", "DEPLOYMENT_ENV"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig(config.Config{AppName: "tokenmeter", Environment: "production"})

	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, 0.1, cfg.OTLP.SamplingRatio)
	assert.Equal(t, 10*time.Second, cfg.OTLP.ExportInterval)
	assert.Empty(t, cfg.Push.Exporter)
	assert.Equal(t, "tokenmeter", cfg.Push.Job)
	assert.False(t, cfg.Verbose())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")
	t.Setenv("OTEL_METRIC_EXPORT_INTERVAL", "2s")
	t.Setenv("METRICS_PUSH_EXPORTER", "Prometheus_Remote_Write")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := LoadConfig(config.Config{Environment: "production"})

	assert.Equal(t, "tokenmeter", cfg.ServiceName)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, 1.0, cfg.OTLP.SamplingRatio)
	assert.Equal(t, 2*time.Second, cfg.OTLP.ExportInterval)
	assert.Equal(t, "prometheus_remote_write", cfg.Push.Exporter)
	assert.True(t, cfg.Verbose())
}
