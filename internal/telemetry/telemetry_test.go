package telemetry

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.KeyValue
	}{
		{"string", "abc", attribute.String("k", "abc")},
		{"bool", true, attribute.Bool("k", true)},
		{"int", 42, attribute.Int("k", 42)},
		{"int64", int64(42), attribute.Int64("k", 42)},
		{"float64", 1.5, attribute.Float64("k", 1.5)},
		{"duration", 2 * time.Second, attribute.Int64("k", 2000)},
		{"unsupported", struct{}{}, attribute.String("k", "unsupported")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAttribute("k", tt.value)
			if got != tt.want {
				t.Errorf("toAttribute() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmittersNeverPanic(t *testing.T) {
	attrs := map[string]any{"session_id": "session_x_1", "device_changed": true}

	NopEmitter{}.Emit("new_session_created", attrs)
	NewLogEmitter(slog.New(slog.NewTextHandler(os.Stderr, nil))).Emit("new_session_created", attrs)
	NewSpanEmitter("chatclient-test", "").Emit("new_session_created", attrs)
}

func TestInitTracer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	shutdown, err := InitTracer("chatclient-test", "run-1", logger)
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}
