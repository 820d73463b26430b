package middleware

import "context"

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxRequestID contextKey = "request_id"
)

// UserIDFromContext returns the user id read from the session token, if any.
// It is informational only; the remote API authorizes every call.
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRequestID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
