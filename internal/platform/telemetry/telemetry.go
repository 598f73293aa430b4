// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "gcp-samples", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "gcp-samples", telemetry.ExporterStdout, "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "gcp-samples")
//	metrics.SampleRunTotal.Add(ctx, 1, ...)
//
// Every instrument method is nil-safe on *Metrics, so callers can pass nil
// when telemetry is disabled.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.40.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName scopes meters and tracers to this module.
const InstrumentationName = "github.com/jsamuelsen11/gcp-samples"

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Attribute keys for metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrSample      = attribute.Key("sample")
	AttrProduct     = attribute.Key("product")
	AttrOperation   = attribute.Key("operation")
)

// Result attribute values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultTimeout = "timeout"
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
	SampleRunDuration     metric.Float64Histogram
	SampleRunTotal        metric.Int64Counter
	PollAttempts          metric.Int64Histogram
}

// Tracer returns the module-scoped tracer from the global provider. When
// telemetry is disabled the global provider is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// RecordSampleRun records one sample execution. Nil-safe.
func (m *Metrics) RecordSampleRun(ctx context.Context, sample, product, result string, elapsed float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		AttrSample.String(sample),
		AttrProduct.String(product),
		AttrResult.String(result),
	)
	m.SampleRunDuration.Record(ctx, elapsed, attrs)
	m.SampleRunTotal.Add(ctx, 1, attrs)
}

// RecordPoll records the number of status checks a poll loop took. Nil-safe.
func (m *Metrics) RecordPoll(ctx context.Context, operation, result string, attempts int) {
	if m == nil {
		return
	}
	m.PollAttempts.Record(ctx, int64(attempts), metric.WithAttributes(
		AttrOperation.String(operation),
		AttrResult.String(result),
	))
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: "otlp" uses OTLP/HTTP
// with the given endpoint and "stdout" a pretty-printed stdout exporter for
// development. Other values are rejected.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric exporter, as for InitTracer.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers all metric instruments using the given
// MeterProvider. The meter is scoped to the module path and tagged with the
// service name.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(InstrumentationName,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)))

	serverDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of incoming HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.duration: %w", err)
	}

	serverTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of incoming HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.total: %w", err)
	}

	clientDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of outgoing HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.duration: %w", err)
	}

	clientTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of outgoing HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.total: %w", err)
	}

	sampleDuration, err := meter.Float64Histogram(
		"sample.run.duration",
		metric.WithDescription("Duration of sample executions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.run.duration: %w", err)
	}

	sampleTotal, err := meter.Int64Counter(
		"sample.run.total",
		metric.WithDescription("Total number of sample executions"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sample.run.total: %w", err)
	}

	pollAttempts, err := meter.Int64Histogram(
		"operation.poll.attempts",
		metric.WithDescription("Status checks issued per long-running operation"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.poll.attempts: %w", err)
	}

	return &Metrics{
		ServerRequestDuration: serverDuration,
		ServerRequestTotal:    serverTotal,
		ClientRequestDuration: clientDuration,
		ClientRequestTotal:    clientTotal,
		SampleRunDuration:     sampleDuration,
		SampleRunTotal:        sampleTotal,
		PollAttempts:          pollAttempts,
	}, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	if err := checkExporter(exporter, endpoint); err != nil {
		return nil, err
	}
	if exporter == ExporterOTLP {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	if err := checkExporter(exporter, endpoint); err != nil {
		return nil, err
	}
	if exporter == ExporterOTLP {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	}
	return stdoutmetric.New()
}

func checkExporter(exporter, endpoint string) error {
	switch exporter {
	case ExporterStdout:
		return nil
	case ExporterOTLP:
		if endpoint == "" {
			return errors.New("otlp exporter requires an endpoint")
		}
		return nil
	default:
		return fmt.Errorf("unsupported exporter %q", exporter)
	}
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
