package query

import (
	"context"
	"fmt"
	"strings"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/pkg/errors"
)

// GetOrderInvoiceQuery asks for the rendered invoice of one order
type GetOrderInvoiceQuery struct {
	Credential string
	OrderID    string
}

// OrderInvoiceResult is the invoice file plus a download name
type OrderInvoiceResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// GetOrderInvoiceHandler serves invoices for delivered orders only
type GetOrderInvoiceHandler struct {
	orderSource   repository.OrderSource
	invoiceSource repository.InvoiceSource
}

// NewGetOrderInvoiceHandler creates a new get order invoice handler
func NewGetOrderInvoiceHandler(orderSource repository.OrderSource, invoiceSource repository.InvoiceSource) *GetOrderInvoiceHandler {
	return &GetOrderInvoiceHandler{
		orderSource:   orderSource,
		invoiceSource: invoiceSource,
	}
}

// Handle processes the get order invoice query
func (h *GetOrderInvoiceHandler) Handle(ctx context.Context, query *GetOrderInvoiceQuery) (*OrderInvoiceResult, error) {
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
	if order.Status != aggregate.OrderStatusDelivered {
		return nil, errors.NewConflictError(fmt.Sprintf("invoice is only available for delivered orders, order is %s", statusKey(order.Status)))
	}

	invoice, err := h.invoiceSource.GetInvoice(ctx, query.Credential, query.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return &OrderInvoiceResult{
		Filename:    fmt.Sprintf("invoice_%s.pdf", order.DisplayID()),
		ContentType: invoice.ContentType,
		Content:     invoice.Content,
	}, nil
}
