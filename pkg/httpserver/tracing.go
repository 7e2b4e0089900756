package httpserver

import (
	"context"

	"github.com/kaytu-io/kaytu-pms/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// InitTracer installs a jaeger backed tracer provider when an agent host is
// configured. Without one the global no-op provider stays in place. The
// returned func flushes pending spans.
func InitTracer(cfg config.Tracing, logger *zap.Logger) (func(context.Context) error, error) {
	if cfg.JaegerAgentHost == "" {
		logger.Info("tracing disabled, no jaeger agent configured")
		return func(context.Context) error { return nil }, nil
	}

	opts := []jaeger.AgentEndpointOption{jaeger.WithAgentHost(cfg.JaegerAgentHost)}
	if cfg.JaegerAgentPort != "" {
		opts = append(opts, jaeger.WithAgentPort(cfg.JaegerAgentPort))
	}
	exporter, err := jaeger.New(jaeger.WithAgentEndpoint(opts...))
	if err != nil {
		return nil, err
	}

	name := cfg.ServiceName
	if name == "" {
		name = serviceName
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing enabled", zap.String("agent_host", cfg.JaegerAgentHost), zap.String("service", name))
	return tp.Shutdown, nil
}
