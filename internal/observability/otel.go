package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
	"github.com/yungbote/phoneshop-backend/internal/platform/envutil"
)

const tracerName = "github.com/yungbote/phoneshop-backend"

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
}

// exportSettings is the OTLP side of tracing, read from the standard OTEL_* env.
type exportSettings struct {
	exporter    string // otlp | stdout | none
	endpoint    string
	headers     map[string]string
	insecure    bool
	sampleRatio float64
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

// Tracer resolves to the global no-op provider until InitOTel ran.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitOTel installs the global tracer provider once and returns its shutdown,
// or nil when tracing is disabled.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		if !cfg.Enabled {
			return
		}
		if log == nil {
			log = logger.Nop()
		}
		settings := loadExportSettings()
		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "phoneshop"
		}

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("otel resource init failed, continuing", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.sampleRatio))),
			sdktrace.WithResource(res),
		}
		exp, err := newSpanExporter(ctx, settings)
		switch {
		case err != nil:
			log.Warn("otel exporter init failed, spans are dropped", "error", err, "exporter", settings.exporter)
		case exp != nil:
			opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("otel tracing initialized",
			"service", serviceName,
			"exporter", settings.exporter,
			"endpoint", settings.endpoint,
			"sample_ratio", settings.sampleRatio,
		)
	})
	return otelShutdown
}

func loadExportSettings() exportSettings {
	s := exportSettings{
		endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		headers:     parseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
		insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		sampleRatio: clampRatio(envutil.Float("OTEL_SAMPLER_RATIO", 1)),
	}
	s.exporter = strings.ToLower(envutil.String("OTEL_TRACES_EXPORTER", ""))
	if s.exporter == "" {
		s.exporter = "stdout"
		if s.endpoint != "" {
			s.exporter = "otlp"
		}
	}
	return s
}

func newSpanExporter(ctx context.Context, s exportSettings) (sdktrace.SpanExporter, error) {
	switch s.exporter {
	case "none":
		return nil, nil
	case "otlp":
		opts := []otlptracehttp.Option{}
		if s.endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(s.endpoint))
		}
		if s.insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(s.headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(s.headers))
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return stdouttrace.New()
	}
}

func clampRatio(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// parseHeaders reads "k1=v1,k2=v2"; malformed pairs are skipped.
func parseHeaders(raw string) map[string]string {
	var headers map[string]string
	for _, part := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(part, "=")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			continue
		}
		if headers == nil {
			headers = map[string]string{}
		}
		headers[key] = val
	}
	return headers
}
