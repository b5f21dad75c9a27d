package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"furniture-admin/internal/application/command"
	"furniture-admin/internal/application/query"
	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/pkg/errors"
	"furniture-admin/pkg/middleware"
	"furniture-admin/pkg/response"

	"github.com/go-chi/chi/v5"
)

// UpdateOrderStatusHandlerInterface is satisfied by command.UpdateOrderStatusHandler
type UpdateOrderStatusHandlerInterface interface {
	Handle(ctx context.Context, cmd *command.UpdateOrderStatusCommand) (*aggregate.Order, error)
}

// HTTPOrderController handles the admin order review endpoints
type HTTPOrderController struct {
	listOrdersHandler        *query.ListOrdersHandler
	getOrderHandler          *query.GetOrderHandler
	updateOrderStatusHandler UpdateOrderStatusHandlerInterface
	getOrderInvoiceHandler   *query.GetOrderInvoiceHandler
}

// NewHTTPOrderController creates a new HTTP order controller
func NewHTTPOrderController(
	listOrdersHandler *query.ListOrdersHandler,
	getOrderHandler *query.GetOrderHandler,
	updateOrderStatusHandler UpdateOrderStatusHandlerInterface,
	getOrderInvoiceHandler *query.GetOrderInvoiceHandler,
) *HTTPOrderController {
	return &HTTPOrderController{
		listOrdersHandler:        listOrdersHandler,
		getOrderHandler:          getOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderInvoiceHandler:   getOrderInvoiceHandler,
	}
}

// orderResponse adds the derived revenue to an order
type orderResponse struct {
	aggregate.Order
	Revenue float64 `json:"revenue"`
}

func toOrderResponse(order aggregate.Order) orderResponse {
	return orderResponse{Order: order, Revenue: order.Revenue().InexactFloat64()}
}

// ListOrders handles GET /api/admin/orders
// Query parameters: status, offset, limit
func (c *HTTPOrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r, "offset")
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	result, err := c.listOrdersHandler.Handle(r.Context(), &query.ListOrdersQuery{
		Credential: middleware.GetCredential(r.Context()),
		Status:     r.URL.Query().Get("status"),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	orders := make([]orderResponse, 0, len(result.Orders))
	for _, order := range result.Orders {
		orders = append(orders, toOrderResponse(order))
	}

	response.SendSuccessWithMeta(w, r, orders, &response.Meta{
		Offset: result.Offset,
		Limit:  result.Limit,
		Total:  result.Total,
	})
}

// GetOrder handles GET /api/admin/orders/{id}
func (c *HTTPOrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := c.getOrderHandler.Handle(r.Context(), &query.GetOrderQuery{
		Credential: middleware.GetCredential(r.Context()),
		OrderID:    chi.URLParam(r, "id"),
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, toOrderResponse(*order))
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status
func (c *HTTPOrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}

	cmd := &command.UpdateOrderStatusCommand{
		Credential: middleware.GetCredential(r.Context()),
		OrderID:    chi.URLParam(r, "id"),
		Status:     body.Status,
	}
	if claims, ok := middleware.GetClaims(r.Context()); ok {
		cmd.ChangedBy = claims.Identity()
	}

	order, err := c.updateOrderStatusHandler.Handle(r.Context(), cmd)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, toOrderResponse(*order))
}

// GetInvoice handles GET /api/admin/orders/{id}/invoice
func (c *HTTPOrderController) GetInvoice(w http.ResponseWriter, r *http.Request) {
	result, err := c.getOrderInvoiceHandler.Handle(r.Context(), &query.GetOrderInvoiceQuery{
		Credential: middleware.GetCredential(r.Context()),
		OrderID:    chi.URLParam(r, "id"),
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Content)
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError("invalid " + name)
	}
	return v, nil
}
