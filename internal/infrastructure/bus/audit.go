package bus

import (
	"context"
	"fmt"

	"furniture-admin/internal/domain/event"

	"github.com/sirupsen/logrus"
)

// NewOrderAuditHandler returns a subscriber that writes order status changes
// to the audit log.
func NewOrderAuditHandler(log logrus.FieldLogger) EventHandler {
	return EventHandlerFunc(func(ctx context.Context, e event.DomainEvent) error {
		changed, ok := e.(*event.OrderStatusChanged)
		if !ok {
			return fmt.Errorf("unexpected event %T", e)
		}
		log.WithFields(logrus.Fields{
			"audit":      true,
			"order_id":   changed.OrderID,
			"old_status": changed.OldStatus,
			"new_status": changed.NewStatus,
			"changed_by": changed.ChangedBy,
			"at":         changed.Timestamp,
		}).Info("order status changed")
		return nil
	})
}
