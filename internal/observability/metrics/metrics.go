package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	priceResolutions metric.Int64Counter
	contracts        metric.Int64Counter
	ledgerEntries    metric.Int64Counter
	reconciliations  metric.Int64Counter
	importRows       metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg))

	priceResolutions, err := meter.Int64Counter("billboards_price_resolutions_total")
	if err != nil {
		return nil, err
	}
	contracts, err := meter.Int64Counter("billboards_contracts_written_total")
	if err != nil {
		return nil, err
	}
	ledgerEntries, err := meter.Int64Counter("billboards_ledger_entries_total")
	if err != nil {
		return nil, err
	}
	reconciliations, err := meter.Int64Counter("billboards_reconciliations_total")
	if err != nil {
		return nil, err
	}
	importRows, err := meter.Int64Counter("billboards_import_rows_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		priceResolutions: priceResolutions,
		contracts:        contracts,
		ledgerEntries:    ledgerEntries,
		reconciliations:  reconciliations,
		importRows:       importRows,
	}, nil
}

// RecordPriceResolution counts a priced line item by source (rate_card or fallback).
func (m *Metrics) RecordPriceResolution(ctx context.Context, source string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source", strings.TrimSpace(source)))
	m.priceResolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordContract counts contract writes (created, renewed, updated).
func (m *Metrics) RecordContract(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("kind", strings.TrimSpace(kind)))
	m.contracts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLedgerEntry counts ledger entry writes by entry type and operation.
func (m *Metrics) RecordLedgerEntry(ctx context.Context, entryType, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("entry_type", strings.TrimSpace(entryType)),
		attribute.String("operation", strings.TrimSpace(operation)),
	)
	m.ledgerEntries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordReconciliation counts balance computations by customer lookup mode.
func (m *Metrics) RecordReconciliation(ctx context.Context, lookup string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("lookup", strings.TrimSpace(lookup)))
	m.reconciliations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordImportRows counts imported spreadsheet rows by record kind and outcome.
func (m *Metrics) RecordImportRows(ctx context.Context, kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	attrs := FilterAttributes(
		attribute.String("kind", strings.TrimSpace(kind)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.importRows.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

func meterName(cfg Config) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "billboards"
}

// allowedLabelKeys is the full label vocabulary. Customer names, ids and
// contract numbers are unbounded and never become labels.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"route":        {},
	"method":       {},
	"status_class": {},
	"source":       {},
	"kind":         {},
	"entry_type":   {},
	"operation":    {},
	"lookup":       {},
	"outcome":      {},
}

// FilterAttributes drops any attribute outside allowedLabelKeys.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
