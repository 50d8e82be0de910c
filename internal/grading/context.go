package grading

import "context"

type contextKey string

const attemptIDKey contextKey = "grading_attempt_id"

// WithAttemptID attaches the attempt identifier sent as X-Request-ID.
func WithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDKey, id)
}

// AttemptIDFrom extracts the attempt identifier from the context.
func AttemptIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(attemptIDKey).(string); ok {
		return v
	}
	return ""
}
