package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger

	// APIKey is the single shared secret requests must present.
	APIKey string

	// SkipPaths lists exact request paths that bypass authentication
	// (the health check endpoint).
	SkipPaths []string
}

// Auth returns a middleware that authenticates every request against
// the static X-API-Key header. A missing key yields 401 Unauthorized,
// a mismatched key 403 Forbidden. Paths in SkipPaths pass through
// untouched.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key := extractAPIKey(r)
			if key == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_key"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeMissingKeyError(w)
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_key"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeInvalidKeyError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the X-API-Key header.
// Surrounding whitespace is stripped, so keys pasted into GUI clients
// with a stray space keep working.
func extractAPIKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// writeMissingKeyError writes a 401 Unauthorized response.
func writeMissingKeyError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"API key is required","code":"UNAUTHENTICATED"}`))
}

// writeInvalidKeyError writes a 403 Forbidden response.
func writeInvalidKeyError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"Invalid API key","code":"FORBIDDEN"}`))
}
