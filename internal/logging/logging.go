// Package logging provides the process-wide structured logger and optional
// OpenTelemetry tracing. Log lines written inside a span carry its trace_id
// and span_id.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trade-tracker"

var (
	globalLogger    = slog.Default()
	detailedLogging bool
	tracingEnabled  bool
	tracer          trace.Tracer
	tracerProvider  *sdktrace.TracerProvider
)

// Config holds logging configuration.
type Config struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool
	TracingEnabled  bool
	Version         string
	// Output defaults to stdout.
	Output io.Writer
}

// Init installs the global logger and, when enabled, the tracer provider.
// A tracer that fails to start only disables tracing.
func Init(cfg Config) error {
	detailedLogging = cfg.DetailedLogging
	tracingEnabled = cfg.TracingEnabled

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	if tracingEnabled {
		if err := initTracer(cfg.Version); err != nil {
			globalLogger.Warn("Failed to initialize tracer, tracing disabled", "error", err)
			tracingEnabled = false
		}
	}
	return nil
}

func initTracer(version string) error {
	exporter, err := stdouttrace.New()
	if err != nil {
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(serviceName)
	return nil
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}

// ParseLevel converts a level name to slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StartSpan starts a span, or returns ctx unchanged when tracing is off.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !tracingEnabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, args...)
}

// ErrorWithErr logs err and records it on the active span.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	if span := trace.SpanFromContext(ctx); tracingEnabled && span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	logWithTrace(ctx, slog.LevelError, msg, append([]any{"error", err}, args...)...)
}

// Event logs a ledger event and adds it to the active span.
func Event(ctx context.Context, name string, fields ...any) {
	if span := trace.SpanFromContext(ctx); tracingEnabled && span.SpanContext().IsValid() {
		span.AddEvent(name, trace.WithAttributes(attributes(fields)...))
	}
	logWithTrace(ctx, slog.LevelInfo, name, append([]any{"type", "EVENT"}, fields...)...)
}

func logWithTrace(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !globalLogger.Enabled(ctx, level) {
		return
	}

	if tracingEnabled {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			args = append([]any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}, args...)
		}
	}

	if detailedLogging {
		// runtime.Caller -> logWithTrace -> Info/Warn/... -> caller
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", slog.GroupValue(
					slog.String("function", fn.Name()),
					slog.String("file", file),
					slog.Int("line", line),
				))
			}
		}
	}

	globalLogger.Log(ctx, level, msg, args...)
}

// Operation times one unit of work under its own span.
type Operation struct {
	ctx    context.Context
	span   trace.Span
	name   string
	start  time.Time
	fields []any
}

// StartOperation opens a span named name and remembers fields for the closing log line.
func StartOperation(ctx context.Context, name string, fields ...any) *Operation {
	ctx, span := StartSpan(ctx, name)
	if tracingEnabled {
		span.SetAttributes(attributes(fields)...)
	}
	return &Operation{ctx: ctx, span: span, name: name, start: time.Now(), fields: fields}
}

// Context returns the context carrying the operation span.
func (o *Operation) Context() context.Context {
	return o.ctx
}

// End logs the operation at INFO with its duration.
func (o *Operation) End(fields ...any) {
	d := time.Since(o.start)
	if tracingEnabled {
		o.span.SetAttributes(attribute.Int64("duration_ms", d.Milliseconds()))
		o.span.SetAttributes(attributes(fields)...)
		o.span.SetStatus(codes.Ok, "completed")
		o.span.End()
	}

	args := append([]any{"operation", o.name, "duration_ms", d.Milliseconds()}, o.fields...)
	Info(o.ctx, "Operation completed", append(args, fields...)...)
}

// EndWithError logs the operation failure at ERROR.
func (o *Operation) EndWithError(err error, fields ...any) {
	d := time.Since(o.start)
	if tracingEnabled {
		o.span.SetAttributes(attribute.Int64("duration_ms", d.Milliseconds()))
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.End()
	}

	args := append([]any{"operation", o.name, "duration_ms", d.Milliseconds(), "error", err}, o.fields...)
	Error(o.ctx, "Operation failed", append(args, fields...)...)
}

// attributes converts alternating key/value pairs into span attributes.
// Values of other types are formatted as strings.
func attributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		default:
			attrs = append(attrs, attribute.String(key, slog.AnyValue(v).String()))
		}
	}
	return attrs
}
