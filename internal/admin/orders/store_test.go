package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeService records queries and answers from a configurable function.
type fakeService struct {
	mu     sync.Mutex
	calls  []Query
	listFn func(Query) (ListResult, error)
}

func (f *fakeService) List(_ context.Context, _ string, query Query) (ListResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	fn := f.listFn
	f.mu.Unlock()

	if fn == nil {
		return ListResult{Pagination: Pagination{Page: query.Page, Limit: query.Limit}}, nil
	}
	return fn(query)
}

func (f *fakeService) UpdateStatus(context.Context, string, string, StatusUpdate) (Order, error) {
	return Order{}, errors.New("not implemented")
}

func (f *fakeService) UpdatePaymentStatus(context.Context, string, string, PaymentStatusUpdate) (Order, error) {
	return Order{}, errors.New("not implemented")
}

func (f *fakeService) CreateManualOrder(context.Context, string, ManualDraft, string) (ManualResult, error) {
	return ManualResult{}, errors.New("not implemented")
}

func (f *fakeService) queries() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.calls...)
}

func TestStoreSettersTriggerNoFetch(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	store := NewStore(svc, 20)

	store.SetSearch("INV-1001")
	store.SetOrderStatus("DELIVERED")
	store.SetPaymentStatus("PAID")
	store.SetPaymentMethod("BKASH")
	store.SetDateFrom("2026-01-01")
	store.SetDateTo("2026-01-31")

	require.Empty(t, svc.queries(), "staging filters must not hit the network")
	require.Equal(t, 6, store.ActiveFilterCount())
}

func TestStoreApplyFiltersNormalizesAndResetsPage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		listFn: func(q Query) (ListResult, error) {
			return ListResult{Pagination: Pagination{Page: q.Page, Limit: q.Limit, Total: 120, TotalPages: 6, HasNext: q.Page < 6, HasPrev: q.Page > 1}}, nil
		},
	}
	store := NewStore(svc, 20)

	// Land on page 5 first.
	require.NoError(t, store.Fetch(context.Background(), "tok", 5))
	require.Equal(t, 5, store.Page())

	store.SetSearch("INV-1001")
	store.SetOrderStatus("DELIVERED")
	store.SetPaymentStatus("all")
	require.NoError(t, store.ApplyFilters(context.Background(), "tok"))

	queries := svc.queries()
	require.Len(t, queries, 2)
	applied := queries[1]
	require.Equal(t, 1, applied.Page, "apply must always reset to page 1")
	require.Equal(t, "INV-1001", applied.Search)
	require.Equal(t, "DELIVERED", applied.OrderStatus)
	require.Empty(t, applied.PaymentStatus, `"all" must be omitted from the query`)
	require.Empty(t, applied.PaymentMethod)
}

func TestStoreClearAllFiltersFetchesUnconstrained(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	store := NewStore(svc, 20)

	store.SetSearch("needle")
	store.SetOrderStatus("SHIPPED")
	require.NoError(t, store.ApplyFilters(context.Background(), "tok"))
	require.NoError(t, store.ClearAllFilters(context.Background(), "tok"))

	queries := svc.queries()
	require.Len(t, queries, 2)
	cleared := queries[1]
	require.Equal(t, Query{Page: 1, Limit: 20}, cleared)
	require.Zero(t, store.ActiveFilterCount())
}

func TestStorePaginationIsServerAuthoritative(t *testing.T) {
	t.Parallel()

	// Deliberately inconsistent envelope: the store must not "fix" it.
	envelope := Pagination{Page: 3, Limit: 20, Total: 41, TotalPages: 3, HasNext: true, HasPrev: false}
	svc := &fakeService{
		listFn: func(q Query) (ListResult, error) {
			return ListResult{Pagination: envelope}, nil
		},
	}
	store := NewStore(svc, 20)

	require.NoError(t, store.Fetch(context.Background(), "tok", 3))
	require.Equal(t, envelope, store.Pagination())
}

func TestStoreFailureRetainsPreviousList(t *testing.T) {
	t.Parallel()

	good := []Order{{ID: "ord_1", OrderNumber: "INV-1"}}
	fail := false
	svc := &fakeService{
		listFn: func(q Query) (ListResult, error) {
			if fail {
				return ListResult{}, errors.New("backend down")
			}
			return ListResult{Orders: good, Pagination: Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}}, nil
		},
	}
	store := NewStore(svc, 20)

	require.NoError(t, store.Fetch(context.Background(), "tok", 1))
	require.Len(t, store.Orders(), 1)

	fail = true
	err := store.Fetch(context.Background(), "tok", 2)
	require.Error(t, err)
	require.Len(t, store.Orders(), 1, "previous list must be retained on failure")
	require.False(t, store.Loading(), "loading must clear on failure")
}

func TestStoreSupersededFetchCannotOverwrite(t *testing.T) {
	t.Parallel()

	oldStarted := make(chan struct{})
	oldRelease := make(chan struct{})
	first := true

	svc := &fakeService{}
	svc.listFn = func(q Query) (ListResult, error) {
		if first {
			first = false
			close(oldStarted)
			<-oldRelease
			return ListResult{
				Orders:     []Order{{ID: "stale"}},
				Pagination: Pagination{Page: q.Page},
			}, nil
		}
		return ListResult{
			Orders:     []Order{{ID: "fresh"}},
			Pagination: Pagination{Page: q.Page},
		}, nil
	}
	store := NewStore(svc, 20)

	done := make(chan error, 1)
	go func() {
		done <- store.Fetch(context.Background(), "tok", 1)
	}()
	<-oldStarted

	// A second fetch supersedes the in-flight one.
	require.NoError(t, store.Fetch(context.Background(), "tok", 2))
	close(oldRelease)
	require.NoError(t, <-done)

	ordersNow := store.Orders()
	require.Len(t, ordersNow, 1)
	require.Equal(t, "fresh", ordersNow[0].ID, "stale response must not overwrite the newer one")
}

func TestStoreRefreshUsesAppliedFiltersAndPage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		listFn: func(q Query) (ListResult, error) {
			return ListResult{Pagination: Pagination{Page: q.Page, Limit: q.Limit, Total: 100, TotalPages: 5}}, nil
		},
	}
	store := NewStore(svc, 20)

	store.SetOrderStatus("SHIPPED")
	require.NoError(t, store.ApplyFilters(context.Background(), "tok"))
	require.NoError(t, store.Fetch(context.Background(), "tok", 3))
	require.NoError(t, store.Refresh(context.Background(), "tok"))

	queries := svc.queries()
	require.Len(t, queries, 3)
	refreshed := queries[2]
	require.Equal(t, 3, refreshed.Page)
	require.Equal(t, "SHIPPED", refreshed.OrderStatus)
}

func TestStoreDetailFetchesItemsWithoutTouchingTheList(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		listFn: func(q Query) (ListResult, error) {
			if q.IncludeItems {
				return ListResult{
					Orders: []Order{{
						ID:          "ord_9",
						OrderNumber: "INV-9009",
						Items:       []OrderItem{{ID: "itm-1", ProductName: "Classic Panjabi", Quantity: 2}},
					}},
					Pagination: Pagination{Page: 1, Limit: q.Limit, Total: 1, TotalPages: 1},
				}, nil
			}
			return ListResult{
				Orders:     []Order{{ID: "ord_9", OrderNumber: "INV-9009"}, {ID: "ord_10", OrderNumber: "INV-9010"}},
				Pagination: Pagination{Page: 1, Limit: q.Limit, Total: 2, TotalPages: 1},
			}, nil
		},
	}
	store := NewStore(svc, 20)
	require.NoError(t, store.Fetch(context.Background(), "tok", 1))

	order, err := store.Detail(context.Background(), "tok", "ord_9")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	queries := svc.queries()
	require.Len(t, queries, 2)
	require.Equal(t, "INV-9009", queries[1].Search)
	require.True(t, queries[1].IncludeItems)

	// The list on screen keeps the page the operator fetched.
	require.Len(t, store.Orders(), 2)

	_, err = store.Detail(context.Background(), "tok", "ord_404")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
