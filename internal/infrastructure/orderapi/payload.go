package orderapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
)

// orderPayload is the store backend's order document. Nested structures are
// decoded lazily so one malformed field never rejects the whole order.
type orderPayload struct {
	ID               json.RawMessage `json:"_id"`
	OrderID          json.RawMessage `json:"orderId"`
	CreatedAt        json.RawMessage `json:"createdAt"`
	Status           json.RawMessage `json:"status"`
	PaymentMethod    json.RawMessage `json:"paymentMethod"`
	PaymentBreakdown json.RawMessage `json:"paymentBreakdown"`
	Products         json.RawMessage `json:"products"`
	UserAddress      json.RawMessage `json:"userAddress"`
}

func (p orderPayload) toOrder() aggregate.Order {
	order := aggregate.Order{
		ID:            scalarString(p.ID),
		OrderID:       scalarString(p.OrderID),
		CreatedAt:     parseInstant(p.CreatedAt),
		Status:        aggregate.OrderStatus(scalarString(p.Status)),
		PaymentMethod: scalarString(p.PaymentMethod),
	}

	var breakdown aggregate.PaymentBreakdown
	if isObject(p.PaymentBreakdown) && json.Unmarshal(p.PaymentBreakdown, &breakdown) == nil {
		order.PaymentBreakdown = &breakdown
	}

	var items []json.RawMessage
	if json.Unmarshal(p.Products, &items) == nil {
		for _, raw := range items {
			var item lineItemPayload
			if !isObject(raw) || json.Unmarshal(raw, &item) != nil {
				continue
			}
			order.Products = append(order.Products, item.toLineItem())
		}
	}

	var address aggregate.Address
	if isObject(p.UserAddress) && json.Unmarshal(p.UserAddress, &address) == nil {
		order.UserAddress = &address
	}

	return order
}

// lineItemPayload tolerates an unpopulated product reference (a bare id)
type lineItemPayload struct {
	Product  json.RawMessage   `json:"product"`
	Price    aggregate.Numeric `json:"price"`
	Quantity aggregate.Numeric `json:"quantity"`
}

func (p lineItemPayload) toLineItem() aggregate.LineItem {
	item := aggregate.LineItem{Price: p.Price, Quantity: p.Quantity}

	var product aggregate.ProductRef
	switch {
	case isObject(p.Product):
		if json.Unmarshal(p.Product, &product) == nil {
			item.Product = &product
		}
	case len(p.Product) > 0:
		if json.Unmarshal(p.Product, &product.ID) == nil && product.ID != "" {
			item.Product = &product
		}
	}

	return item
}

// scalarString reads a string or number as text. Other values yield "".
func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch c := trimmed[0]; {
	case c == '"':
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if json.Unmarshal(trimmed, &n) == nil {
			return n.String()
		}
	}
	return ""
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseInstant accepts ISO-8601 strings and epoch milliseconds. Anything
// else yields the zero time, which the aggregator skips.
func parseInstant(raw json.RawMessage) time.Time {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return time.Time{}
		}
		s = strings.TrimSpace(s)
		for _, layout := range instantLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}

	if ms, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// decodeOrderList accepts a bare array or an object wrapping it under
// "orders" or "data".
func decodeOrderList(body []byte) ([]orderPayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var rawOrders []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &rawOrders); err != nil {
			return nil, err
		}
	case '{':
		var envelope struct {
			Orders []json.RawMessage `json:"orders"`
			Data   []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		rawOrders = envelope.Orders
		if rawOrders == nil {
			rawOrders = envelope.Data
		}
	default:
		return nil, fmt.Errorf("unexpected response body")
	}

	payloads := make([]orderPayload, 0, len(rawOrders))
	for _, raw := range rawOrders {
		var p orderPayload
		if !isObject(raw) || json.Unmarshal(raw, &p) != nil {
			continue
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// decodeSingleOrder accepts a bare order or one wrapped under "order"
func decodeSingleOrder(body []byte) (*aggregate.Order, error) {
	var envelope struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", repository.ErrSourceUnavailable, err)
	}

	raw := json.RawMessage(body)
	if isObject(envelope.Order) {
		raw = envelope.Order
	}

	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", repository.ErrSourceUnavailable, err)
	}
	order := p.toOrder()
	if order.ID == "" {
		return nil, repository.ErrOrderNotFound
	}

	return &order, nil
}
