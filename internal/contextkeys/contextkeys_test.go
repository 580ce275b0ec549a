package contextkeys

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestEnsureTraceID(t *testing.T) {
	valid := uuid.NewString()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"valid uuid is kept", valid, true},
		{"empty header", "", false},
		{"garbage header", "run-1; DROP", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, traceID := EnsureTraceID(context.Background(), tt.incoming)
			if tt.keep && traceID != tt.incoming {
				t.Errorf("traceID = %q; want %q", traceID, tt.incoming)
			}
			if _, err := uuid.Parse(traceID); err != nil {
				t.Errorf("traceID %q is not a UUID", traceID)
			}
			if got := TraceIDFromContext(ctx); got != traceID {
				t.Errorf("context trace = %q; want %q", got, traceID)
			}
		})
	}
}

func TestLoggerFromContextFallsBackToNoop(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	if logger == nil {
		t.Fatal("logger must never be nil")
	}
	logger.WithFields(nil).Info("ignored", nil)

	if TraceIDFromContext(context.Background()) != "" {
		t.Error("empty context must not carry a trace id")
	}
}
