package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"time"

	"furniture-admin/internal/domain/repository"
	"furniture-admin/pkg/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context key for request ID
type contextKey string

const requestIDKey contextKey = "requestID"

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used by the middleware and HandleError
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}

// RequestIDMiddleware assigns a request ID, reusing a well-formed incoming
// X-Request-ID header when present.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)

		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TimeoutMiddleware adds request timeout
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs HTTP requests with request ID
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		entry := logger.WithFields(logrus.Fields{
			"request_id": GetRequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		entry.WithField("remote_addr", r.RemoteAddr).Debug("request started")

		next.ServeHTTP(ww, r)

		entry.WithFields(logrus.Fields{
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request completed")
	})
}

// RecoveryMiddleware recovers panics and answers with a 500
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithFields(logrus.Fields{
					"request_id": GetRequestID(r.Context()),
					"panic":      err,
					"stack":      string(debug.Stack()),
				}).Error("panic recovered")

				if w.Header().Get("Content-Type") == "" {
					HandleError(w, r, errors.NewInternalError("Internal server error"))
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// HandleError writes an error response with enhanced logging using ApiResponse format
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())
	appErr := ToApplicationError(err)

	entry := logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     appErr.Status,
		"code":       appErr.Code,
		"method":     r.Method,
		"path":       r.URL.Path,
	})
	if appErr.Status >= http.StatusInternalServerError {
		entry.WithError(err).Error(appErr.Message)
	} else {
		entry.Warn(appErr.Message)
	}

	sendApiErrorResponse(w, requestID, appErr.Status, appErr.Code, appErr.Message)
}

// ToApplicationError converts any error into an ApplicationError. Order
// source failures keep their distinct status codes.
func ToApplicationError(err error) *errors.ApplicationError {
	var appErr *errors.ApplicationError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, repository.ErrMissingCredential):
		return errors.NewUnauthorizedError("Missing admin credential").WithCause(err)
	case stderrors.Is(err, repository.ErrUnauthorized):
		return errors.NewUnauthorizedError("Admin credential is invalid or expired").WithCause(err)
	case stderrors.Is(err, repository.ErrOrderNotFound):
		return errors.NewNotFoundError("order").WithCause(err)
	case stderrors.Is(err, repository.ErrSourceUnavailable):
		return errors.NewBadGatewayError("Order source unavailable").WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewRequestTimeoutError("Request timeout").WithCause(err)
	default:
		return errors.NewInternalError("Internal server error").WithCause(err)
	}
}

// sendApiErrorResponse sends a standardized API error response
func sendApiErrorResponse(w http.ResponseWriter, requestID string, statusCode int, code, message string) {
	response := map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"request_id": requestID,
		"timestamp":  time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return "unknown"
}
