package telemetry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Telemetry struct {
	TracerProvider *trace.TracerProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}

type Config struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	Headers      map[string]string `json:"headers"`
}

// Setup installs a global tracer provider exporting to the configured
// OTLP gRPC endpoint. With no endpoint configured spans stay no-ops.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	if config.GrpcEndpoint == "" {
		return Telemetry{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return Telemetry{}, err
	}

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(config.GrpcEndpoint),
		otlptracegrpc.WithHeaders(config.Headers),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return Telemetry{}, err
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(time.Second*10)),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(provider)

	slog.Info("otlp trace exporter enabled", "endpoint", config.GrpcEndpoint)
	return Telemetry{TracerProvider: provider}, nil
}

// sets up telemetry in a testing environment, spans are created but
// never exported
func SetupForTesting(t testing.TB, serviceName string) func() {
	tel, err := Setup(context.Background(), serviceName, Config{})
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}
