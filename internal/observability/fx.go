package observability

import (
	"strings"

	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/observability/logger"
	"github.com/smallbiznis/billboards/internal/observability/metrics"
	"github.com/smallbiznis/billboards/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		NewConfig,
		Config.logger,
		logger.New,
		Config.tracing,
		tracing.NewProvider,
		Config.metrics,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// Config is the resolved telemetry setup shared by the logger, tracer and
// meter providers.
type Config struct {
	Service     string
	Version     string
	Environment string
	Telemetry   config.TelemetryConfig
}

func NewConfig(cfg config.Config) Config {
	service := strings.TrimSpace(cfg.AppName)
	if service == "" {
		service = "billboards"
	}
	return Config{
		Service:     service,
		Version:     cfg.AppVersion,
		Environment: strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Telemetry:   cfg.Telemetry,
	}
}

// Debug is true for debug log level and for local environments.
func (c Config) Debug() bool {
	if c.Telemetry.LogLevel == "debug" {
		return true
	}
	switch c.Environment {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) logger() logger.Config {
	return logger.Config{
		Service:       c.Service,
		Environment:   c.Environment,
		Version:       c.Version,
		Level:         c.Telemetry.LogLevel,
		Format:        c.Telemetry.LogFormat,
		StackOnErrors: c.Debug(),
	}
}

func (c Config) tracing() tracing.Config {
	return tracing.Config{
		Enabled:          c.Telemetry.OtelEnabled,
		ServiceName:      c.Service,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Telemetry.OTLPEndpoint,
		ExporterProtocol: c.Telemetry.OTLPProtocol,
		SamplingRatio:    c.Telemetry.SamplingRatio,
	}
}

func (c Config) metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.Telemetry.OtelEnabled,
		ExporterEndpoint: c.Telemetry.OTLPEndpoint,
		ExporterProtocol: c.Telemetry.OTLPProtocol,
		ServiceName:      c.Service,
	}
}
