package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avbinvest/staffsync/internal/observability"
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

// Metrics exposes application-level instruments.
type Metrics struct {
	httpDuration          metric.Int64Histogram
	remoteCalls           metric.Int64Counter
	membershipTransitions metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg observability.Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.OtelEnabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.OtelExporterProtocol, cfg.OtelExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.OtelExporterEndpoint),
		zap.String("protocol", cfg.OtelExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg observability.Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "staffsync"
	}
	meter := provider.Meter(name)

	httpDuration, err := meter.Int64Histogram("staffsync_http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	remoteCalls, err := meter.Int64Counter("staffsync_remote_calls_total")
	if err != nil {
		return nil, err
	}
	membershipTransitions, err := meter.Int64Counter("staffsync_membership_transitions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		httpDuration:          httpDuration,
		remoteCalls:           remoteCalls,
		membershipTransitions: membershipTransitions,
	}, nil
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.Record(ctx, elapsed.Milliseconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}

// RecordRemoteCall counts one call to the opposite service.
func (m *Metrics) RecordRemoteCall(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.remoteCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordMembershipTransition counts one committed membership state change.
func (m *Metrics) RecordMembershipTransition(ctx context.Context, transition string) {
	if m == nil {
		return
	}
	m.membershipTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch protocol {
	case "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp metric protocol %q", protocol)
	}
}
