package query

import (
	"time"

	"furniture-admin/internal/domain/revenue"
)

// GetRevenueDashboard query for the admin revenue chart
type GetRevenueDashboard struct {
	Credential string
	Window     revenue.Window
	Now        time.Time      // zero means the handler's clock
	Location   *time.Location // nil means the handler's reference timezone
}

// RevenueDashboardResult contains the chart series and its summary
type RevenueDashboardResult struct {
	Window  revenue.Window
	Buckets []revenue.Bucket
	Summary DashboardSummary
}

// DashboardSummary contains aggregated totals
type DashboardSummary struct {
	TotalRevenue   float64
	OrderCount     int // orders returned by the source
	OrdersInWindow int
	OrdersByStatus map[string]int // orders in the window, keyed by status
	PeakLabel      string
	PeakRevenue    float64
	FromDate       time.Time
	ToDate         time.Time
	Timezone       string
}
