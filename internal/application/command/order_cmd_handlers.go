package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/event"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/internal/infrastructure/bus"
	"furniture-admin/pkg/errors"

	"github.com/sirupsen/logrus"
)

// UpdateOrderStatusHandler handles order status transitions
type UpdateOrderStatusHandler struct {
	orderSource repository.OrderSource
	eventBus    bus.EventBus
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewUpdateOrderStatusHandler creates a new update order status handler
func NewUpdateOrderStatusHandler(orderSource repository.OrderSource, eventBus bus.EventBus, log logrus.FieldLogger) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{
		orderSource: orderSource,
		eventBus:    eventBus,
		log:         log,
		now:         time.Now,
	}
}

// Handle processes the update order status command
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, cmd *UpdateOrderStatusCommand) (*aggregate.Order, error) {
	if cmd == nil {
		return nil, errors.NewValidationError("command cannot be nil")
	}
	if strings.TrimSpace(cmd.OrderID) == "" {
		return nil, errors.NewValidationError("order id is required")
	}

	status, err := aggregate.ParseOrderStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	current, err := h.orderSource.GetOrder(ctx, cmd.Credential, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := h.orderSource.UpdateOrderStatus(ctx, cmd.Credential, cmd.OrderID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	evt := &event.OrderStatusChanged{
		OrderID:   current.DisplayID(),
		OldStatus: string(current.Status),
		NewStatus: string(status),
		ChangedBy: cmd.ChangedBy,
		Timestamp: h.now().UTC(),
	}
	// The store already holds the new status; a failing subscriber is not fatal
	if err := h.eventBus.Publish(ctx, evt); err != nil {
		h.log.WithError(err).WithField("order_id", evt.OrderID).Warn("failed to publish order status event")
	}

	return updated, nil
}
