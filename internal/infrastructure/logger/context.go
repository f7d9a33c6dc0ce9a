package logger

import "context"

// contextKey is a private type for context keys used by the logger package
type contextKey string

// requestIDKey is the context key for the request ID
const requestIDKey contextKey = "request_id"

// WithRequestID attaches the request ID to the context so lower layers,
// the GORM logger in particular, can tag their entries with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
