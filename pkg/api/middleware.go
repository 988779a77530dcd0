package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/auth"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the token claims of an authenticated request
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

func keysEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// apiKeyMiddleware validates the X-API-Key header. An empty expected key
// leaves the routes open.
func apiKeyMiddleware(expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expectedKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			if !keysEqual(apiKey, expectedKey) {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// secureMiddleware accepts either a bearer token signed by tokens or the
// X-API-Key. With neither configured every request is rejected.
func secureMiddleware(tokens *auth.TokenIssuer, expectedKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" && expectedKey != "" {
				if !keysEqual(apiKey, expectedKey) {
					sendError(w, "Invalid API key", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="pokecsv"`)
				sendError(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}
			if tokens == nil {
				sendError(w, "Bearer tokens are not enabled", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				sendError(w, "Invalid bearer token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims)))
		})
	}
}

// requestLogger logs every request with a request id, reusing the caller's
// X-Request-ID when present.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	sugar := logger.Sugar()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				sugar.Infow("request",
					"requestId", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// sendSuccess sends a successful JSON response
func sendSuccess(w http.ResponseWriter, data interface{}) {
	sendSuccessStatus(w, data, http.StatusOK)
}

// sendSuccessStatus sends a successful JSON response with a custom status
func sendSuccessStatus(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// sendNoContent sends a 204 with the message in a header
func sendNoContent(w http.ResponseWriter, message string) {
	w.Header().Set("X-Pokecsv-Message", message)
	w.WriteHeader(http.StatusNoContent)
}

// sendError sends an error JSON response
func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendErrorData(w, message, nil, statusCode)
}

func sendErrorData(w http.ResponseWriter, message string, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := APIResponse{
		Success: false,
		Data:    data,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(response)
}
