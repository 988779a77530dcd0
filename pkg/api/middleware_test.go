package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ssargent/pokecsv/pkg/auth"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		requestHeader  string
		expectedStatus int
	}{
		{
			name:           "valid API key",
			apiKey:         "test-key",
			requestHeader:  "test-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			apiKey:         "test-key",
			requestHeader:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid API key",
			apiKey:         "test-key",
			requestHeader:  "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "no key configured",
			apiKey:         "",
			requestHeader:  "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			handler := apiKeyMiddleware(tt.apiKey)(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set("X-API-Key", tt.requestHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSecureMiddlewareClaims(t *testing.T) {
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: testSecret, Issuer: "pokecsv"})
	require.NoError(t, err)
	token, err := tokens.Issue("misty")
	require.NoError(t, err)

	var subject string
	handler := secureMiddleware(tokens, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "misty", subject)

	// An API key is ignored when none is configured
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "anything")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSecureMiddlewareExpiredToken(t *testing.T) {
	past := time.Now().Add(-3 * time.Hour)
	old, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: testSecret, Now: func() time.Time { return past }})
	require.NoError(t, err)
	token, err := old.Issue("brock")
	require.NoError(t, err)

	current, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: testSecret})
	require.NoError(t, err)

	handler := secureMiddleware(current, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := requestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates a request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/brew", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Len(t, w.Header().Get(requestIDHeader), 36)
	})

	t.Run("keeps the caller's request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/brew", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	})

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "abc-123", fields["requestId"])
	assert.Equal(t, "/brew", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestSendSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"message": "test"}

	sendSuccess(w, data)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Empty(t, response.Error)
}

func TestSendError(t *testing.T) {
	w := httptest.NewRecorder()

	sendError(w, "test error", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response APIResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "test error", response.Error)
	assert.Nil(t, response.Data)
}

func TestSendNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	sendNoContent(w, "CSV File was empty")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Equal(t, "CSV File was empty", w.Header().Get("X-Pokecsv-Message"))
}
