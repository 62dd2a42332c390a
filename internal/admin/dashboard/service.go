// Package dashboard aggregates order data into the landing page overview.
// It has no storage of its own; every number is derived from backend list
// queries at request time.
package dashboard

import (
	"context"
	"time"

	"github.com/trendora/storefront-admin/internal/admin/orders"
)

// Overview is the landing page summary.
type Overview struct {
	TotalOrders    int
	PendingOrders  int
	UnpaidOrders   int
	DeliveredToday int
	Recent         []orders.Order
	GeneratedAt    time.Time
}

// Service produces the dashboard overview.
type Service interface {
	Overview(ctx context.Context, token string) (Overview, error)
}

const recentOrderCount = 5

type orderBackedService struct {
	orders orders.Service
	now    func() time.Time
}

// NewService builds the overview from the order listing API.
func NewService(svc orders.Service) Service {
	return &orderBackedService{orders: svc, now: time.Now}
}

// Overview issues one listing query per headline number. The pagination
// totals are the backend's own counts, so no client-side aggregation over
// full result sets is needed.
func (s *orderBackedService) Overview(ctx context.Context, token string) (Overview, error) {
	recent, err := s.orders.List(ctx, token, orders.Query{Page: 1, Limit: recentOrderCount})
	if err != nil {
		return Overview{}, err
	}

	pending, err := s.orders.List(ctx, token, orders.Query{Page: 1, Limit: 1, OrderStatus: string(orders.StatusPending)})
	if err != nil {
		return Overview{}, err
	}

	unpaid, err := s.orders.List(ctx, token, orders.Query{Page: 1, Limit: 1, PaymentStatus: string(orders.PaymentPending)})
	if err != nil {
		return Overview{}, err
	}

	today := s.now().Format("2006-01-02")
	delivered, err := s.orders.List(ctx, token, orders.Query{
		Page: 1, Limit: 1,
		OrderStatus: string(orders.StatusDelivered),
		DateFrom:    today,
		DateTo:      today,
	})
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		TotalOrders:    recent.Pagination.Total,
		PendingOrders:  pending.Pagination.Total,
		UnpaidOrders:   unpaid.Pagination.Total,
		DeliveredToday: delivered.Pagination.Total,
		Recent:         recent.Orders,
		GeneratedAt:    s.now(),
	}, nil
}
