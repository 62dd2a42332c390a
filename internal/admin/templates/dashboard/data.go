// Package dashboard builds the landing page view model.
package dashboard

import (
	"strconv"
	"strings"

	admindashboard "github.com/trendora/storefront-admin/internal/admin/dashboard"
	tplorders "github.com/trendora/storefront-admin/internal/admin/templates/orders"
)

// PageData is the dashboard SSR payload.
type PageData struct {
	Title       string
	Metrics     []MetricCard
	Recent      []tplorders.TableRow
	OrdersURL   string
	ManualURL   string
	GeneratedAt string
}

// MetricCard is one headline number.
type MetricCard struct {
	Key   string
	Label string
	Value string
	Tone  string
}

// BuildPageData prepares the dashboard payload from the overview.
func BuildPageData(basePath string, overview admindashboard.Overview) PageData {
	generated := ""
	if !overview.GeneratedAt.IsZero() {
		generated = overview.GeneratedAt.Format("2006-01-02 15:04")
	}

	return PageData{
		Title: "Dashboard",
		Metrics: []MetricCard{
			{Key: "total", Label: "Total orders", Value: strconv.Itoa(overview.TotalOrders), Tone: "info"},
			{Key: "pending", Label: "Pending orders", Value: strconv.Itoa(overview.PendingOrders), Tone: "warning"},
			{Key: "unpaid", Label: "Unpaid orders", Value: strconv.Itoa(overview.UnpaidOrders), Tone: "danger"},
			{Key: "delivered", Label: "Delivered today", Value: strconv.Itoa(overview.DeliveredToday), Tone: "success"},
		},
		Recent:      tplorders.Rows(basePath, overview.Recent),
		OrdersURL:   joinBase(basePath, "/orders"),
		ManualURL:   joinBase(basePath, "/orders/manual"),
		GeneratedAt: generated,
	}
}

func joinBase(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		if base == "" {
			return "/"
		}
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
