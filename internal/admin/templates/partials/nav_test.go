package partials

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
)

func contextForPath(t *testing.T, path string) context.Context {
	t.Helper()

	var ctx context.Context
	handler := middleware.RequestInfo("/admin")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	return ctx
}

func itemByKey(t *testing.T, items []MenuItem, key string) MenuItem {
	t.Helper()
	for _, item := range items {
		if item.Key == key {
			return item
		}
	}
	t.Fatalf("menu item %q not found", key)
	return MenuItem{}
}

func TestBuildMenuHighlightsOrders(t *testing.T) {
	t.Parallel()

	ctx := contextForPath(t, "/admin/orders?page=2")
	items := BuildMenu(ctx, "/admin")

	require.True(t, itemByKey(t, items, "orders").Active)
	require.False(t, itemByKey(t, items, "dashboard").Active)
	require.False(t, itemByKey(t, items, "manual-order").Active)
}

func TestBuildMenuManualOrderWinsOverOrders(t *testing.T) {
	t.Parallel()

	ctx := contextForPath(t, "/admin/orders/manual")
	items := BuildMenu(ctx, "/admin")

	require.True(t, itemByKey(t, items, "manual-order").Active)
	require.False(t, itemByKey(t, items, "orders").Active)
}

func TestAdminName(t *testing.T) {
	t.Parallel()

	require.Empty(t, AdminName(context.Background()))

	ctx := middleware.ContextWithUser(context.Background(), &middleware.User{Email: "ops@trendora.com"})
	require.Equal(t, "ops@trendora.com", AdminName(ctx))

	ctx = middleware.ContextWithUser(context.Background(), &middleware.User{Email: "ops@trendora.com", Username: "ops"})
	require.Equal(t, "ops", AdminName(ctx))
}
