// Package web - Request-scoped logging and content-type middleware
//
// EDUCATIONAL NOTES:
// ------------------
// Middleware in Go HTTP servers wraps handlers to add cross-cutting concerns.
// Context-based dependency injection is a common pattern:
//
// 1. Outer middleware injects dependencies into request context
// 2. Handlers retrieve dependencies from context when needed
// 3. Inner middleware can reject requests early, before any handler runs
//
// Here the injected dependency is a zap logger already tagged with the
// request ID, so every record a handler writes can be tied to one request.

package web

import (
	"context"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions.
// Using a custom type prevents other packages from accidentally
// overwriting our context values with the same string key.
type contextKey string

// loggerKey is the context key for storing the request logger.
const loggerKey contextKey = "logger"

// WithLogger returns middleware that injects a request-scoped logger into
// the request context. Handlers retrieve it with GetLogger.
//
// EDUCATIONAL NOTE:
// -----------------
// This middleware must run after chi's RequestID middleware, otherwise
// there is no request ID to attach yet.
func WithLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger
			if id := middleware.GetReqID(r.Context()); id != "" {
				reqLogger = logger.With(zap.String("request_id", id))
			}
			ctx := context.WithValue(r.Context(), loggerKey, reqLogger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the request logger from the request context.
// Returns a no-op logger if WithLogger was not applied.
func GetLogger(r *http.Request) *zap.Logger {
	logger, ok := r.Context().Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return logger
}

// RequireJSON rejects requests whose body is declared as anything other
// than JSON with 415 Unsupported Media Type. A missing Content-Type is
// accepted.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				writeError(w, http.StatusUnsupportedMediaType, "request body must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
