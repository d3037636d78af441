package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/tokenmeter/internal/config"
)

// Config is the observability view of the environment.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	Log  LogConfig
	OTLP OTLPConfig
	Push PushConfig
}

type LogConfig struct {
	Level  string
	Format string
	// Output defaults to stderr because reports are written to stdout.
	Output string
}

type OTLPConfig struct {
	// Enabled is off by default so a CLI run never waits on a collector.
	Enabled        bool
	Endpoint       string
	Protocol       string
	SamplingRatio  float64
	ExportInterval time.Duration
}

// PushConfig drives the post-run metrics push. An empty Exporter disables it.
type PushConfig struct {
	Exporter string
	Endpoint string
	Token    string
	Job      string
}

func LoadConfig(cfg config.Config) Config {
	service := strings.TrimSpace(cfg.AppName)
	if service == "" {
		service = "tokenmeter"
	}

	return Config{
		ServiceName: service,
		Environment: env("DEPLOYMENT_ENV", cfg.Environment),
		Version:     env("SERVICE_VERSION", cfg.AppVersion),
		Log: LogConfig{
			Level:  strings.ToLower(env("LOG_LEVEL", "info")),
			Format: strings.ToLower(env("LOG_FORMAT", "json")),
			Output: env("LOG_OUTPUT", "stderr"),
		},
		OTLP: OTLPConfig{
			Enabled:        envBool("OTEL_ENABLED", false),
			Endpoint:       env("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint),
			Protocol:       strings.ToLower(env("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
			SamplingRatio:  clampRatio(envFloat("OTEL_SAMPLING_RATIO", 0.1)),
			ExportInterval: envDuration("OTEL_METRIC_EXPORT_INTERVAL", 10*time.Second),
		},
		Push: PushConfig{
			Exporter: strings.ToLower(env("METRICS_PUSH_EXPORTER", "")),
			Endpoint: env("METRICS_PUSH_ENDPOINT", ""),
			Token:    env("METRICS_PUSH_TOKEN", ""),
			Job:      env("METRICS_PUSH_JOB", service),
		},
	}
}

// Verbose reports whether logs should carry caller and stack details.
func (c Config) Verbose() bool {
	if c.Log.Level == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func env(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return strings.TrimSpace(def)
}

func envBool(key string, def bool) bool {
	value, err := strconv.ParseBool(env(key, ""))
	if err != nil {
		return def
	}
	return value
}

func envFloat(key string, def float64) float64 {
	value, err := strconv.ParseFloat(env(key, ""), 64)
	if err != nil {
		return def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	value, err := time.ParseDuration(env(key, ""))
	if err != nil || value <= 0 {
		return def
	}
	return value
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
