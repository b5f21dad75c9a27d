package repository

import (
	"context"
	"errors"

	"furniture-admin/internal/domain/aggregate"
)

var (
	// ErrMissingCredential is returned before any call is made when the
	// caller did not supply a bearer credential.
	ErrMissingCredential = errors.New("missing admin credential")
	// ErrUnauthorized means the order source rejected the credential as
	// invalid or expired.
	ErrUnauthorized = errors.New("admin credential rejected")
	// ErrOrderNotFound means no order matched the requested id
	ErrOrderNotFound = errors.New("order not found")
	// ErrSourceUnavailable wraps transport and upstream server failures
	ErrSourceUnavailable = errors.New("order source unavailable")
)

// OrderSource reads and transitions store orders on behalf of an admin.
// Every call carries the admin's bearer credential explicitly.
type OrderSource interface {
	ListOrders(ctx context.Context, credential string) ([]aggregate.Order, error)
	GetOrder(ctx context.Context, credential, orderID string) (*aggregate.Order, error)
	UpdateOrderStatus(ctx context.Context, credential, orderID string, status aggregate.OrderStatus) (*aggregate.Order, error)
}
