package response

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"furniture-admin/pkg/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	middleware.RequestIDMiddleware(h).ServeHTTP(rec, req)
	return rec
}

func TestSendSuccess(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SendSuccess(w, r, map[string]int{"orders": 3})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		RequestID string         `json:"request_id"`
		Success   bool           `json:"success"`
		Data      map[string]int `json:"data"`
		Meta      *Meta          `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body.RequestID)
	assert.Equal(t, 3, body.Data["orders"])
	assert.Nil(t, body.Meta)
}

func TestSendSuccessWithMeta(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SendSuccessWithMeta(w, r, []string{}, &Meta{Offset: 20, Limit: 20, Total: 41})
	})

	var body struct {
		Data []string `json:"data"`
		Meta Meta     `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, Meta{Offset: 20, Limit: 20, Total: 41}, body.Meta)
}

func TestSendSuccess_UnencodableDataIsInternalError(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		SendSuccess(w, r, map[string]float64{"revenue": math.Inf(1)})
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
