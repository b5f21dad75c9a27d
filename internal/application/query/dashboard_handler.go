package query

import (
	"context"
	"fmt"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
	"furniture-admin/internal/domain/revenue"
	"furniture-admin/pkg/errors"

	"github.com/sirupsen/logrus"
)

type RevenueDashboardHandler struct {
	orderSource repository.OrderSource
	location    *time.Location
	now         func() time.Time
	log         logrus.FieldLogger
}

func NewRevenueDashboardHandler(orderSource repository.OrderSource, location *time.Location, log logrus.FieldLogger) *RevenueDashboardHandler {
	if location == nil {
		location = time.UTC
	}
	return &RevenueDashboardHandler{
		orderSource: orderSource,
		location:    location,
		now:         time.Now,
		log:         log,
	}
}

// WithClock overrides the handler's clock
func (h *RevenueDashboardHandler) WithClock(now func() time.Time) *RevenueDashboardHandler {
	h.now = now
	return h
}

// Location returns the reference timezone used when a query sets none
func (h *RevenueDashboardHandler) Location() *time.Location {
	return h.location
}

func (h *RevenueDashboardHandler) Handle(ctx context.Context, query GetRevenueDashboard) (*RevenueDashboardResult, error) {
	if query.Window.BucketCount() == 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid window %q: must be today, week or month", query.Window))
	}

	loc := query.Location
	if loc == nil {
		loc = h.location
	}
	now := query.Now
	if now.IsZero() {
		now = h.now()
	}
	now = now.In(loc)

	// The aggregator never sees a failed or partial fetch
	orders, err := h.orderSource.ListOrders(ctx, query.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	buckets, err := revenue.Aggregate(orders, query.Window, now, loc)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	summary := revenue.Summarize(buckets)
	result := &RevenueDashboardResult{
		Window:  query.Window,
		Buckets: buckets,
		Summary: DashboardSummary{
			TotalRevenue:   summary.Total,
			OrderCount:     len(orders),
			OrdersByStatus: make(map[string]int),
			PeakLabel:      summary.PeakLabel,
			PeakRevenue:    summary.PeakValue,
			Timezone:       loc.String(),
		},
	}
	result.Summary.FromDate, result.Summary.ToDate = windowBounds(query.Window, now)

	for _, order := range orders {
		if !inWindow(order, result.Summary.FromDate, result.Summary.ToDate) {
			continue
		}
		result.Summary.OrdersInWindow++
		result.Summary.OrdersByStatus[statusKey(order.Status)]++
	}

	h.log.WithFields(logrus.Fields{
		"window":           query.Window,
		"orders":           len(orders),
		"orders_in_window": result.Summary.OrdersInWindow,
		"total_revenue":    result.Summary.TotalRevenue,
	}).Debug("revenue dashboard computed")

	return result, nil
}

// windowBounds returns the first instant of the oldest bucket and the last
// instant of the current day, in now's location.
func windowBounds(window revenue.Window, now time.Time) (time.Time, time.Time) {
	days := 1
	if window != revenue.WindowToday {
		days = window.BucketCount()
	}
	from := time.Date(now.Year(), now.Month(), now.Day()-(days-1), 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	return from, to
}

func inWindow(order aggregate.Order, from, to time.Time) bool {
	if order.CreatedAt.IsZero() {
		return false
	}
	return !order.CreatedAt.Before(from) && !order.CreatedAt.After(to)
}

func statusKey(status aggregate.OrderStatus) string {
	if status.IsValid() {
		return string(status)
	}
	return "Unknown"
}
