package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const (
	gardenerIDKey contextKey = "gardener_id"
	requestIDKey  contextKey = "request_id"
)

func SetGardenerID(ctx context.Context, gardenerID string) context.Context {
	return context.WithValue(ctx, gardenerIDKey, gardenerID)
}

// GardenerID returns the authenticated gardener, or "" on public routes.
func GardenerID(r *http.Request) string {
	v, _ := r.Context().Value(gardenerIDKey).(string)
	return v
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
