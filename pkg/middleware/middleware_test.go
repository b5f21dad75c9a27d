package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"furniture-admin/internal/domain/repository"
	"furniture-admin/pkg/errors"
	jwtutil "furniture-admin/pkg/jwt"
	applogger "furniture-admin/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetLogger(applogger.Discard())
}

func okHandler(t *testing.T, wantCredential string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantCredential, GetCredential(r.Context()))
		_, ok := GetClaims(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestCredentialMiddleware_RejectsMissingAndMalformedHeaders(t *testing.T) {
	handler := CredentialMiddleware(jwtutil.NewCredentialVerifier(""))(okHandler(t, ""))

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec), header)
	}
}

func TestCredentialMiddleware_PassesOpaqueCredential(t *testing.T) {
	handler := CredentialMiddleware(jwtutil.NewCredentialVerifier(""))(okHandler(t, "opaque-123"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer opaque-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCredentialMiddleware_RoleAndExpiry(t *testing.T) {
	sign := func(role string, exp time.Time) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtutil.Claims{
			Role:             role,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		return token
	}

	verifier := jwtutil.NewCredentialVerifier("k")
	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"admin", sign("admin", time.Now().Add(time.Hour)), http.StatusNoContent},
		{"customer", sign("user", time.Now().Add(time.Hour)), http.StatusForbidden},
		{"expired", sign("admin", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := CredentialMiddleware(verifier)(okHandler(t, tc.token))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestToApplicationError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("list: %w", repository.ErrMissingCredential), 401, "UNAUTHORIZED"},
		{fmt.Errorf("list: %w", repository.ErrUnauthorized), 401, "UNAUTHORIZED"},
		{repository.ErrOrderNotFound, 404, "NOT_FOUND"},
		{fmt.Errorf("dial: %w", repository.ErrSourceUnavailable), 502, "BAD_GATEWAY"},
		{context.DeadlineExceeded, 408, "REQUEST_TIMEOUT"},
		{errors.NewValidationError("bad window"), 400, "VALIDATION_ERROR"},
		{fmt.Errorf("boom"), 500, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		appErr := ToApplicationError(tc.err)
		assert.Equal(t, tc.status, appErr.Status, tc.err.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.err.Error())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, "unknown", seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	incoming := "3f0f3c4e-8a7b-4d6e-9a55-1b0c3d2e1f00"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("chart exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeErrorCode(t, rec))
}
