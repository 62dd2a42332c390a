package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trendora/storefront-admin/internal/admin/notify"
)

type fakeMutableService struct {
	fakeService

	updMu          sync.Mutex
	statusCalls    []StatusUpdate
	paymentCalls   []PaymentStatusUpdate
	updateErr      error
	updatedOrderID string
}

func (f *fakeMutableService) UpdateStatus(_ context.Context, _ string, orderID string, update StatusUpdate) (Order, error) {
	f.updMu.Lock()
	defer f.updMu.Unlock()
	f.statusCalls = append(f.statusCalls, update)
	f.updatedOrderID = orderID
	if f.updateErr != nil {
		return Order{}, f.updateErr
	}
	return Order{ID: orderID, OrderStatus: update.Status}, nil
}

func (f *fakeMutableService) UpdatePaymentStatus(_ context.Context, _ string, orderID string, update PaymentStatusUpdate) (Order, error) {
	f.updMu.Lock()
	defer f.updMu.Unlock()
	f.paymentCalls = append(f.paymentCalls, update)
	f.updatedOrderID = orderID
	if f.updateErr != nil {
		return Order{}, f.updateErr
	}
	return Order{ID: orderID, PaymentStatus: update.Status}, nil
}

func TestUpdatePaymentStatusRefreshesWithActiveFilters(t *testing.T) {
	t.Parallel()

	svc := &fakeMutableService{}
	svc.listFn = func(q Query) (ListResult, error) {
		return ListResult{Pagination: Pagination{Page: q.Page, Limit: q.Limit, Total: 60, TotalPages: 3}}, nil
	}

	store := NewStore(svc, 20)
	store.SetOrderStatus("SHIPPED")
	store.SetSearch("INV")
	require.NoError(t, store.ApplyFilters(context.Background(), "tok"))
	require.NoError(t, store.Fetch(context.Background(), "tok", 2))
	before := len(svc.queries())

	ctx, toasts := notify.WithCollector(context.Background())
	controller := NewTransitionController(svc, store)
	ok := controller.UpdatePaymentStatus(ctx, "tok", "ord_123", PaymentRefunded, "")
	require.True(t, ok)

	require.Len(t, svc.paymentCalls, 1)
	require.Equal(t, PaymentRefunded, svc.paymentCalls[0].Status)
	require.Equal(t, "ord_123", svc.updatedOrderID)

	queries := svc.queries()
	require.Len(t, queries, before+1, "exactly one re-fetch after the update")
	refreshed := queries[len(queries)-1]
	require.Equal(t, 2, refreshed.Page, "refresh keeps the current page")
	require.Equal(t, "SHIPPED", refreshed.OrderStatus)
	require.Equal(t, "INV", refreshed.Search)

	collected := toasts.Toasts()
	require.Len(t, collected, 1)
	require.Equal(t, notify.ToneSuccess, collected[0].Tone)
}

func TestUpdateOrderStatusFailureReturnsFalseWithoutRefresh(t *testing.T) {
	t.Parallel()

	svc := &fakeMutableService{updateErr: ErrOrderNotFound}
	store := NewStore(svc, 20)
	controller := NewTransitionController(svc, store)

	ctx, toasts := notify.WithCollector(context.Background())
	ok := controller.UpdateOrderStatus(ctx, "tok", "ord_missing", StatusShipped, "left warehouse")
	require.False(t, ok)

	require.Len(t, svc.statusCalls, 1)
	require.Equal(t, "left warehouse", svc.statusCalls[0].Notes)
	require.Empty(t, svc.queries(), "no refresh after a failed update")

	collected := toasts.Toasts()
	require.Len(t, collected, 1)
	require.Equal(t, notify.ToneError, collected[0].Tone)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := &fakeMutableService{}
	controller := NewTransitionController(svc, NewStore(svc, 20))

	ctx, _ := notify.WithCollector(context.Background())
	require.False(t, controller.UpdateOrderStatus(ctx, "tok", "ord_1", Status("TELEPORTED"), ""))
	require.Empty(t, svc.statusCalls, "invalid status never reaches the backend")
}
