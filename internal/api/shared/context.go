package shared

import (
	"context"

	"github.com/google/uuid"

	"github.com/grouptaskmanager/taskflow/internal/service"
)

// Key type for context values
type ContextKey string

const (
	// IdentityContextKey is the context key for the acting user's identity.
	IdentityContextKey ContextKey = "identity"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetIdentity stores the acting user's identity in the context. Set by the
// identity middleware; handlers read it back with GetIdentity and pass it
// explicitly into the service layer.
func SetIdentity(ctx context.Context, ident service.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, ident)
}

// GetIdentity retrieves the acting user's identity from the context. The
// zero Identity is returned when none was set; callers check Valid.
func GetIdentity(ctx context.Context) service.Identity {
	ident, ok := ctx.Value(IdentityContextKey).(service.Identity)
	if !ok {
		return service.Identity{}
	}
	return ident
}

// SetTraceID adds a trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
