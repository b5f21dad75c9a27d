package event

import "time"

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
	Version() int
}

// OrderStatusChanged is raised after an admin moves an order to a new status
type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *OrderStatusChanged) EventType() string     { return "OrderStatusChanged" }
func (e *OrderStatusChanged) AggregateID() string   { return e.OrderID }
func (e *OrderStatusChanged) OccurredAt() time.Time { return e.Timestamp }
func (e *OrderStatusChanged) Version() int          { return 1 }
