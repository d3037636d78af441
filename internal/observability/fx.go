package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/tokenmeter/internal/observability/logger"
	"github.com/smallbiznis/tokenmeter/internal/observability/metrics"
	"github.com/smallbiznis/tokenmeter/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideTracingConfig,
		tracing.NewProvider,
		provideMetricsConfig,
		metrics.NewProvider,
		metrics.New,
		provideForecastMetrics,
		providePusher,
	),
	fx.Invoke(ensureTracingProvider),
)

// Nothing else depends on the tracer provider; this forces its construction.
func ensureTracingProvider(_ *sdktrace.TracerProvider) {}

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Verbose:     cfg.Verbose(),
	}
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OTLP.Enabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OTLP.Endpoint,
		ExporterProtocol: cfg.OTLP.Protocol,
		SamplingRatio:    cfg.OTLP.SamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OTLP.Enabled,
		ExporterEndpoint: cfg.OTLP.Endpoint,
		ExporterProtocol: cfg.OTLP.Protocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
		ExportInterval:   cfg.OTLP.ExportInterval,
	}
}

func provideForecastMetrics(cfg metrics.Config) *metrics.ForecastMetrics {
	return metrics.NewForecastMetrics(prometheus.DefaultRegisterer, cfg)
}

func providePusher(cfg Config, log *zap.Logger) metrics.Pusher {
	return metrics.NewPusher(metrics.PushConfig{
		Exporter:    cfg.Push.Exporter,
		Endpoint:    cfg.Push.Endpoint,
		AuthToken:   cfg.Push.Token,
		Job:         cfg.Push.Job,
		Environment: cfg.Environment,
	}, log.Named("metrics.pusher"))
}
