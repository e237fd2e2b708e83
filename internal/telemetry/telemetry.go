// Package telemetry carries named analytics events out of the engine.
// Emission is fire-and-forget: no emitter may block, fail, or otherwise
// influence the control flow of the caller.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Emitter receives named events with primitive attribute maps.
type Emitter interface {
	Emit(name string, attrs map[string]any)
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(string, map[string]any) {}

// SpanEmitter records events as OpenTelemetry span events, tagging each
// with a per-process run id so events from one load cycle correlate.
type SpanEmitter struct {
	tracer trace.Tracer
	runID  string
}

// NewSpanEmitter creates an emitter backed by the global tracer provider.
// Pass the same run id given to InitTracer so span attributes and the
// trace resource agree on the load cycle; an empty runID mints a fresh one.
func NewSpanEmitter(serviceName, runID string) *SpanEmitter {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &SpanEmitter{
		tracer: otel.Tracer(serviceName),
		runID:  runID,
	}
}

func (e *SpanEmitter) Emit(name string, attrs map[string]any) {
	_, span := e.tracer.Start(context.Background(), name)
	defer span.End()

	kvs := make([]attribute.KeyValue, 0, len(attrs)+1)
	kvs = append(kvs, attribute.String("run_id", e.runID))
	for k, v := range attrs {
		kvs = append(kvs, toAttribute(k, v))
	}
	span.SetAttributes(kvs...)
}

// LogEmitter mirrors events to a structured logger, used in development
// when no trace backend is wired up.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(name string, attrs map[string]any) {
	args := make([]any, 0, len(attrs)*2)
	for k, v := range attrs {
		args = append(args, slog.Any(k, v))
	}
	e.logger.Debug("telemetry event "+name, args...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	default:
		return attribute.String(key, "unsupported")
	}
}
