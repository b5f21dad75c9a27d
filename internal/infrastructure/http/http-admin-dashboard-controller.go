package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"furniture-admin/internal/application/query"
	"furniture-admin/internal/domain/revenue"
	"furniture-admin/pkg/errors"
	"furniture-admin/pkg/middleware"
	"furniture-admin/pkg/response"
)

type HTTPAdminDashboardController struct {
	dashboardHandler *query.RevenueDashboardHandler
}

func NewHTTPAdminDashboardController(dashboardHandler *query.RevenueDashboardHandler) *HTTPAdminDashboardController {
	return &HTTPAdminDashboardController{
		dashboardHandler: dashboardHandler,
	}
}

// GetRevenue handles GET /api/admin/dashboard/revenue
// Query parameters: window (today, week, month; default today), tz (IANA name)
func (c *HTTPAdminDashboardController) GetRevenue(w http.ResponseWriter, r *http.Request) {
	windowStr := r.URL.Query().Get("window")
	if strings.TrimSpace(windowStr) == "" {
		windowStr = string(revenue.WindowToday)
	}
	window, err := revenue.ParseWindow(windowStr)
	if err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	var loc *time.Location
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			middleware.HandleError(w, r, errors.NewValidationError(fmt.Sprintf("invalid tz %q", tz)))
			return
		}
	}

	result, err := c.dashboardHandler.Handle(r.Context(), query.GetRevenueDashboard{
		Credential: middleware.GetCredential(r.Context()),
		Window:     window,
		Location:   loc,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	responseData := map[string]interface{}{
		"window":  result.Window,
		"buckets": result.Buckets,
		"summary": map[string]interface{}{
			"total_revenue":    result.Summary.TotalRevenue,
			"order_count":      result.Summary.OrderCount,
			"orders_in_window": result.Summary.OrdersInWindow,
			"orders_by_status": result.Summary.OrdersByStatus,
			"peak_label":       result.Summary.PeakLabel,
			"peak_revenue":     result.Summary.PeakRevenue,
			"from_date":        result.Summary.FromDate.Format("2006-01-02"),
			"to_date":          result.Summary.ToDate.Format("2006-01-02"),
			"timezone":         result.Summary.Timezone,
		},
	}

	response.SendSuccess(w, r, responseData)
}
