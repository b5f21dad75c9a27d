package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/pkg/errors"

	"github.com/sirupsen/logrus"
)

const (
	maxErrorBody    = 4 << 10
	jsonContentType = "application/json"
	pdfContentType  = "application/pdf"
)

// Config holds the configuration for the store backend API
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client reads orders from the store backend's admin REST API
type Client struct {
	config     *Config
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a new store backend client
func NewClient(config *Config, log logrus.FieldLogger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log: log,
	}
}

var (
	_ repository.OrderSource   = (*Client)(nil)
	_ repository.InvoiceSource = (*Client)(nil)
)

// ListOrders handles GET /api/admin/orders
func (c *Client) ListOrders(ctx context.Context, credential string) ([]aggregate.Order, error) {
	body, _, err := c.do(ctx, credential, http.MethodGet, "/api/admin/orders", jsonContentType, nil)
	if err != nil {
		return nil, err
	}

	payloads, err := decodeOrderList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode order list: %v", repository.ErrSourceUnavailable, err)
	}

	orders := make([]aggregate.Order, 0, len(payloads))
	for _, p := range payloads {
		// The admin UI drops entries without an id, so does the dashboard
		order := p.toOrder()
		if order.ID == "" {
			continue
		}
		orders = append(orders, order)
	}

	c.log.WithField("orders", len(orders)).Debug("fetched orders from store backend")
	return orders, nil
}

// GetOrder handles GET /api/admin/orders/{id}
func (c *Client) GetOrder(ctx context.Context, credential, orderID string) (*aggregate.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, repository.ErrOrderNotFound
	}

	body, _, err := c.do(ctx, credential, http.MethodGet, "/api/admin/orders/"+url.PathEscape(orderID), jsonContentType, nil)
	if err != nil {
		return nil, err
	}

	return decodeSingleOrder(body)
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status
func (c *Client) UpdateOrderStatus(ctx context.Context, credential, orderID string, status aggregate.OrderStatus) (*aggregate.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, repository.ErrOrderNotFound
	}

	reqBody, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, _, err := c.do(ctx, credential, http.MethodPut, "/api/admin/orders/"+url.PathEscape(orderID)+"/status", jsonContentType, reqBody)
	if err != nil {
		return nil, err
	}

	return decodeSingleOrder(body)
}

// GetInvoice handles GET /api/admin/orders/{id}/invoice
func (c *Client) GetInvoice(ctx context.Context, credential, orderID string) (*repository.Invoice, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, repository.ErrOrderNotFound
	}

	body, contentType, err := c.do(ctx, credential, http.MethodGet, "/api/admin/orders/"+url.PathEscape(orderID)+"/invoice", pdfContentType, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty invoice", repository.ErrSourceUnavailable)
	}
	if contentType == "" {
		contentType = pdfContentType
	}

	return &repository.Invoice{Content: body, ContentType: contentType}, nil
}

func (c *Client) do(ctx context.Context, credential, method, path, accept string, reqBody []byte) ([]byte, string, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, "", repository.ErrMissingCredential
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", jsonContentType)
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", repository.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read response: %v", repository.ErrSourceUnavailable, err)
	}

	c.log.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("store backend call")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, resp.Header.Get("Content-Type"), nil
	}

	message := upstreamMessage(respBody)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, "", fmt.Errorf("%w: %s", repository.ErrUnauthorized, message)
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("%w: %s", repository.ErrOrderNotFound, message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, "", errors.NewValidationError(message)
	default:
		return nil, "", fmt.Errorf("%w: status %d: %s", repository.ErrSourceUnavailable, resp.StatusCode, message)
	}
}

// upstreamMessage pulls message or error out of an error body
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		return "no response body"
	}
	return text
}
