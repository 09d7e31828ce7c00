package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
)

const (
	// ServiceName identifies this service in exported metrics
	ServiceName = "nsepulse"
	// ServiceVersion is stamped on the metrics resource
	ServiceVersion = "1.0.0"
	// MeterName scopes the engine meters
	MeterName = "nsepulse"
)

// MetricsProvider holds the OpenTelemetry meter provider and the Prometheus
// scrape handler it exports through.
type MetricsProvider struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	logger         *slog.Logger
}

// EngineMetrics are the analysis-level counters and histograms recorded by
// the service layer.
type EngineMetrics struct {
	PredictionsTotal  metric.Int64Counter
	PredictionErrors  metric.Int64Counter
	SnapshotsTotal    metric.Int64Counter
	BatchDuration     metric.Float64Histogram
	RequestsTotal     metric.Int64Counter
	RequestDuration   metric.Float64Histogram
}

// InitializeMetrics sets up the OpenTelemetry meter provider with a
// Prometheus exporter and registers it globally.
func InitializeMetrics(logger *slog.Logger) (*MetricsProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	logger.Info("metrics initialized",
		"service", ServiceName,
		"exporter", "prometheus",
	)

	return &MetricsProvider{
		MeterProvider:  provider,
		Meter:          provider.Meter(MeterName),
		PrometheusHTTP: promhttp.Handler(),
		logger:         logger,
	}, nil
}

// CreateEngineMetrics creates the analysis instruments on the given meter.
func CreateEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	m := &EngineMetrics{}
	var err error

	if m.PredictionsTotal, err = meter.Int64Counter("nsepulse_predictions_total",
		metric.WithDescription("Total breakout predictions computed"),
	); err != nil {
		return nil, fmt.Errorf("create predictions counter: %w", err)
	}

	if m.PredictionErrors, err = meter.Int64Counter("nsepulse_prediction_errors_total",
		metric.WithDescription("Prediction requests rejected as invalid targets"),
	); err != nil {
		return nil, fmt.Errorf("create prediction errors counter: %w", err)
	}

	if m.SnapshotsTotal, err = meter.Int64Counter("nsepulse_snapshots_total",
		metric.WithDescription("Total technical snapshots computed"),
	); err != nil {
		return nil, fmt.Errorf("create snapshots counter: %w", err)
	}

	if m.BatchDuration, err = meter.Float64Histogram("nsepulse_batch_prediction_duration_seconds",
		metric.WithDescription("Duration of batch prediction runs"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create batch duration histogram: %w", err)
	}

	if m.RequestsTotal, err = meter.Int64Counter("nsepulse_http_requests_total",
		metric.WithDescription("Total HTTP requests served"),
	); err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}

	if m.RequestDuration, err = meter.Float64Histogram("nsepulse_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create request duration histogram: %w", err)
	}

	return m, nil
}

// RecordPrediction records one prediction outcome with its direction label.
func (m *EngineMetrics) RecordPrediction(ctx context.Context, direction string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.PredictionErrors.Add(ctx, 1)
		return
	}
	m.PredictionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", direction),
	))
}

// RecordSnapshot records one snapshot computation.
func (m *EngineMetrics) RecordSnapshot(ctx context.Context) {
	if m == nil {
		return
	}
	m.SnapshotsTotal.Add(ctx, 1)
}

// RecordBatch records the duration of a batch prediction run.
func (m *EngineMetrics) RecordBatch(ctx context.Context, d time.Duration, predictions int) {
	if m == nil {
		return
	}
	m.BatchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.Int("predictions", predictions),
	))
}

// RecordRequest records one served HTTP request.
func (m *EngineMetrics) RecordRequest(ctx context.Context, method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.RequestsTotal.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, d.Seconds(), attrs)
}

// Shutdown flushes and stops the meter provider.
func (p *MetricsProvider) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}
