package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type traceIDKeyType struct{}

var traceIDKey = traceIDKeyType{}

// TraceHeader - заголовок, в котором trace_id ходит между HTTP и брокером
const TraceHeader = "X-Trace-ID"

// ContextWithTraceID помещает trace_id в контекст
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext возвращает trace_id запроса или цикла, "" если его нет
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// EnsureTraceID принимает входящий trace_id, только если это UUID; иначе выдает новый.
func EnsureTraceID(ctx context.Context, incoming string) (context.Context, string) {
	if _, err := uuid.Parse(incoming); err != nil {
		incoming = uuid.NewString()
	}
	return ContextWithTraceID(ctx, incoming), incoming
}
