package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/pkg/errors"
)

// ListOrdersQuery represents a query to list orders for the admin
type ListOrdersQuery struct {
	Credential string
	Status     string // optional
	Offset     int
	Limit      int
}

// ListOrdersResult is one page of orders plus the filtered total
type ListOrdersResult struct {
	Orders []aggregate.Order
	Total  int
	Offset int
	Limit  int
}

// ListOrdersHandler handles list orders queries
type ListOrdersHandler struct {
	orderSource repository.OrderSource
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orderSource repository.OrderSource) *ListOrdersHandler {
	return &ListOrdersHandler{
		orderSource: orderSource,
	}
}

// Handle processes the list orders query
func (h *ListOrdersHandler) Handle(ctx context.Context, query *ListOrdersQuery) (*ListOrdersResult, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	var status aggregate.OrderStatus
	if strings.TrimSpace(query.Status) != "" {
		parsed, err := aggregate.ParseOrderStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		status = parsed
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}
	if limit > 100 {
		limit = 100 // Max limit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	orders, err := h.orderSource.ListOrders(ctx, query.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	filtered := make([]aggregate.Order, 0, len(orders))
	for _, order := range orders {
		if status != "" && order.Status != status {
			continue
		}
		filtered = append(filtered, order)
	}

	// Newest first; orders without a date sink to the end
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	result := &ListOrdersResult{
		Orders: []aggregate.Order{},
		Total:  len(filtered),
		Offset: offset,
		Limit:  limit,
	}
	if offset < len(filtered) {
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		result.Orders = filtered[offset:end]
	}

	return result, nil
}

// GetOrderQuery represents a query to get an order by id
type GetOrderQuery struct {
	Credential string
	OrderID    string
}

// GetOrderHandler handles get order queries
type GetOrderHandler struct {
	orderSource repository.OrderSource
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orderSource repository.OrderSource) *GetOrderHandler {
	return &GetOrderHandler{
		orderSource: orderSource,
	}
}

// Handle processes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, query *GetOrderQuery) (*aggregate.Order, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	if strings.TrimSpace(query.OrderID) == "" {
		return nil, errors.NewValidationError("order id is required")
	}

	order, err := h.orderSource.GetOrder(ctx, query.Credential, query.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}
