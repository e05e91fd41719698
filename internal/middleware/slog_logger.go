package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type ownerSlotKey struct{}

// withOwnerSlot gives downstream middleware a place to report the
// authenticated owner back to the request logger, which runs outside the
// authenticated sub-router and never sees its context.
func withOwnerSlot(ctx context.Context, slot *string) context.Context {
	return context.WithValue(ctx, ownerSlotKey{}, slot)
}

func reportOwner(ctx context.Context, ownerID string) {
	if slot, ok := ctx.Value(ownerSlotKey{}).(*string); ok {
		*slot = ownerID
	}
}

// NewSlogLogger returns a middleware that logs each request as a structured
// JSON line via the provided slog.Logger. It captures method, path, HTTP
// status, duration, the request ID set by chi's RequestID middleware, and the
// owner ID when the request was authenticated.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			var owner string
			next.ServeHTTP(ww, r.WithContext(withOwnerSlot(r.Context(), &owner)))

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			}
			if owner != "" {
				attrs = append(attrs, "owner_id", owner)
			}

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.Log(r.Context(), level, "request", attrs...)
		})
	}
}
