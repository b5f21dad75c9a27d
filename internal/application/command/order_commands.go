package command

// UpdateOrderStatusCommand moves an order to a new fulfilment status
type UpdateOrderStatusCommand struct {
	Credential string `json:"-"`
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	ChangedBy  string `json:"changed_by,omitempty"`
}
