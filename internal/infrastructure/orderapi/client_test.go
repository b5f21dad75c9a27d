package orderapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
	apperrors "furniture-admin/pkg/errors"
	"furniture-admin/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersJSON = `[
	{
		"_id": "665f00000000000000000001",
		"orderId": "ORD-1001",
		"createdAt": "2024-06-05T08:45:00.000Z",
		"status": "Delivered",
		"paymentMethod": "UPI",
		"paymentBreakdown": {"itemsTotal": 450, "tax": 40, "shipping": 10, "discount": 0, "total": 500},
		"products": [{"product": {"_id": "p1", "name": "Teak Table", "price": 450}, "quantity": 1}]
	},
	{
		"_id": "665f00000000000000000002",
		"createdAt": 1717570800000,
		"status": "Pending",
		"products": [
			{"product": "p2", "price": "10", "quantity": 3},
			{"product": {"_id": "p3", "name": "Rug"}, "price": "bad", "quantity": 2},
			"garbage"
		]
	},
	{"_id": "665f00000000000000000003", "createdAt": "yesterday-ish", "paymentBreakdown": "n/a", "products": {"oops": true}},
	{"orderId": "NO-STORE-ID", "createdAt": "2024-06-05T08:45:00Z"},
	{"_id": 42}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, logger.Discard())
}

func TestListOrders_DecodesTolerantly(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/admin/orders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(ordersJSON))
	}))

	orders, err := client.ListOrders(context.Background(), "admin-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer admin-token", gotAuth)
	require.Len(t, orders, 3)

	first := orders[0]
	assert.Equal(t, "ORD-1001", first.DisplayID())
	assert.Equal(t, aggregate.OrderStatusDelivered, first.Status)
	assert.Equal(t, time.Date(2024, time.June, 5, 8, 45, 0, 0, time.UTC), first.CreatedAt.UTC())
	assert.Equal(t, "500", first.Revenue().String())
	require.NotNil(t, first.Products[0].Product)
	assert.Equal(t, "Teak Table", first.Products[0].Product.Name)

	second := orders[1]
	assert.Equal(t, time.UnixMilli(1717570800000).UTC(), second.CreatedAt.UTC())
	assert.Nil(t, second.PaymentBreakdown)
	assert.Len(t, second.Products, 2)
	assert.Equal(t, "p2", second.Products[0].Product.ID)
	assert.Equal(t, "30", second.Revenue().String())

	third := orders[2]
	assert.True(t, third.CreatedAt.IsZero())
	assert.Nil(t, third.PaymentBreakdown)
	assert.Empty(t, third.Products)
	assert.True(t, third.Revenue().IsZero())
}

func TestListOrders_NonStringScalarsKeepTheOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"_id": "o-7", "orderId": 1007, "status": 3, "paymentMethod": {"kind": "card"},
			 "createdAt": "2024-06-05T08:45:00Z", "paymentBreakdown": {"total": 120}},
			{"_id": 42, "status": ["Pending"], "paymentBreakdown": {"total": 10}},
			{"_id": null, "paymentBreakdown": {"total": 99}}
		]`))
	}))

	orders, err := client.ListOrders(context.Background(), "admin-token")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "o-7", orders[0].ID)
	assert.Equal(t, "1007", orders[0].OrderID)
	assert.Equal(t, aggregate.OrderStatus("3"), orders[0].Status)
	assert.False(t, orders[0].Status.IsValid())
	assert.Empty(t, orders[0].PaymentMethod)
	assert.Equal(t, "120", orders[0].Revenue().String())

	assert.Equal(t, "42", orders[1].ID)
	assert.Empty(t, orders[1].Status)
	assert.Equal(t, "10", orders[1].Revenue().String())
}

func TestListOrders_AcceptsEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders": [{"_id": "a", "createdAt": "2024-06-05T08:45:00Z"}]}`))
	}))

	orders, err := client.ListOrders(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)
}

func TestListOrders_EmptyList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	orders, err := client.ListOrders(context.Background(), "t")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_MissingCredentialMakesNoCall(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.ListOrders(context.Background(), "  ")
	assert.ErrorIs(t, err, repository.ErrMissingCredential)
	assert.False(t, called)
}

func TestListOrders_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"message":"jwt expired"}`, repository.ErrUnauthorized},
		{http.StatusForbidden, `{"error":"admins only"}`, repository.ErrUnauthorized},
		{http.StatusNotFound, ``, repository.ErrOrderNotFound},
		{http.StatusInternalServerError, `oops`, repository.ErrSourceUnavailable},
		{http.StatusBadGateway, ``, repository.ErrSourceUnavailable},
	}

	for _, tc := range cases {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))

		_, err := client.ListOrders(context.Background(), "t")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestListOrders_UnreachableSource(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClient(&Config{BaseURL: baseURL, Timeout: time.Second}, logger.Discard())
	_, err := client.ListOrders(context.Background(), "t")
	assert.ErrorIs(t, err, repository.ErrSourceUnavailable)
}

func TestListOrders_MalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))

	_, err := client.ListOrders(context.Background(), "t")
	assert.ErrorIs(t, err, repository.ErrSourceUnavailable)
}

func TestGetOrder(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/admin/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id != "ORD-1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Order not found"}`))
			return
		}
		w.Write([]byte(`{"order": {"_id": "x1", "orderId": "ORD-1", "status": "Shipped", "userAddress": {"fullName": "A. Rao", "city": "Pune"}}}`))
	})
	client := newTestClient(t, router)

	order, err := client.GetOrder(context.Background(), "t", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "x1", order.ID)
	assert.Equal(t, aggregate.OrderStatusShipped, order.Status)
	require.NotNil(t, order.UserAddress)
	assert.Equal(t, "Pune", order.UserAddress.City)

	_, err = client.GetOrder(context.Background(), "t", "ORD-2")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	router := chi.NewRouter()
	router.Put("/api/admin/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Status == "Cancelled" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Delivered orders cannot be cancelled"}`))
			return
		}
		w.Write([]byte(`{"_id": "` + chi.URLParam(r, "id") + `", "status": "` + req.Status + `"}`))
	})
	client := newTestClient(t, router)

	order, err := client.UpdateOrderStatus(context.Background(), "t", "x1", aggregate.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "x1", order.ID)
	assert.Equal(t, aggregate.OrderStatusConfirmed, order.Status)

	_, err = client.UpdateOrderStatus(context.Background(), "t", "x1", aggregate.OrderStatusCancelled)
	var appErr *apperrors.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "Delivered orders cannot be cancelled", appErr.Message)
}

func TestGetInvoice(t *testing.T) {
	pdf := []byte("%PDF-1.4 invoice body")

	router := chi.NewRouter()
	router.Get("/api/admin/orders/{id}/invoice", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		switch chi.URLParam(r, "id") {
		case "ORD-1":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(pdf)
		case "empty":
			w.WriteHeader(http.StatusOK)
		case "forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := newTestClient(t, router)

	invoice, err := client.GetInvoice(context.Background(), "t", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, pdf, invoice.Content)
	assert.Equal(t, "application/pdf", invoice.ContentType)

	_, err = client.GetInvoice(context.Background(), "t", "empty")
	assert.ErrorIs(t, err, repository.ErrSourceUnavailable)

	_, err = client.GetInvoice(context.Background(), "t", "forbidden")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)

	_, err = client.GetInvoice(context.Background(), "t", "ORD-404")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	_, err = client.GetInvoice(context.Background(), "", "ORD-1")
	assert.ErrorIs(t, err, repository.ErrMissingCredential)
}
