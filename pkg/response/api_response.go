package response

import (
	"encoding/json"
	"net/http"
	"time"

	"furniture-admin/pkg/errors"
	"furniture-admin/pkg/middleware"
)

// ApiResponse represents a standardized API response structure
type ApiResponse struct {
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Meta      *Meta       `json:"meta,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Meta contains paging metadata for list responses
type Meta struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// SendSuccess sends a successful API response
func SendSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	send(w, r, http.StatusOK, data, nil)
}

// SendSuccessWithMeta sends a successful list response with paging metadata
func SendSuccessWithMeta(w http.ResponseWriter, r *http.Request, data interface{}, meta *Meta) {
	send(w, r, http.StatusOK, data, meta)
}

func send(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}, meta *Meta) {
	response := ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   true,
		Meta:      meta,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(response)
	if err != nil {
		middleware.HandleError(w, r, errors.NewInternalError("Failed to encode response").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}
