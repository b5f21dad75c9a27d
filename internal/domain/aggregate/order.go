package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses lists the closed set of statuses in fulfilment order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid checks if the status is one of the known fulfilment states
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus matches s case-insensitively against the known statuses
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, known := range OrderStatuses {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q: must be one of Pending, Confirmed, Shipped, Delivered, Cancelled", s)
}

// PaymentBreakdown is the precomputed price summary stored with an order
type PaymentBreakdown struct {
	ItemsTotal Numeric `json:"itemsTotal"`
	Tax        Numeric `json:"tax"`
	Shipping   Numeric `json:"shipping"`
	Discount   Numeric `json:"discount"`
	Total      Numeric `json:"total"`
}

// ProductRef is the product snapshot embedded in an order line
type ProductRef struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Price    Numeric `json:"price"`
}

// LineItem is one product line of an order
type LineItem struct {
	Product  *ProductRef `json:"product,omitempty"`
	Price    Numeric     `json:"price"`
	Quantity Numeric     `json:"quantity"`
}

// UnitPrice returns the line's own price, falling back to the embedded
// product price when the line carries none.
func (li LineItem) UnitPrice() Numeric {
	if li.Price.IsValid() || li.Product == nil {
		return li.Price
	}
	return li.Product.Price
}

// LineTotal returns price * quantity, or zero when either is unusable
func (li LineItem) LineTotal() decimal.Decimal {
	price, ok := li.UnitPrice().Decimal()
	if !ok {
		return decimal.Zero
	}
	quantity, ok := li.Quantity.Decimal()
	if !ok {
		return decimal.Zero
	}
	return price.Mul(quantity)
}

// Address is the delivery address captured at checkout
type Address struct {
	FullName string `json:"fullName"`
	Flat     string `json:"flat"`
	Area     string `json:"area"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	State    string `json:"state"`
	Phone    string `json:"phone"`
}

// Order is a read-only view of a store order
type Order struct {
	ID               string            `json:"_id"`
	OrderID          string            `json:"orderId,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	Status           OrderStatus       `json:"status"`
	PaymentMethod    string            `json:"paymentMethod,omitempty"`
	PaymentBreakdown *PaymentBreakdown `json:"paymentBreakdown,omitempty"`
	Products         []LineItem        `json:"products,omitempty"`
	UserAddress      *Address          `json:"userAddress,omitempty"`
}

// DisplayID returns the business order id when set, else the store id
func (o Order) DisplayID() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return o.ID
}

// Revenue returns the revenue attributed to the order. The precomputed
// breakdown total wins; otherwise the line items are summed, with malformed
// lines contributing zero. An order with neither yields zero.
func (o Order) Revenue() decimal.Decimal {
	if o.PaymentBreakdown != nil {
		if total, ok := o.PaymentBreakdown.Total.Decimal(); ok {
			return total
		}
	}

	sum := decimal.Zero
	for _, item := range o.Products {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}
