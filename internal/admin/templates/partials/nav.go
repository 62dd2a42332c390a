// Package partials holds view models shared by the admin page chrome: the
// sidebar menu, breadcrumbs and the toast region.
package partials

import (
	"context"
	"strings"

	"github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/templates/helpers"
)

// Breadcrumb is one step of the page breadcrumb trail.
type Breadcrumb struct {
	Label string
	Href  string
}

// MenuItem is a sidebar navigation entry.
type MenuItem struct {
	Key         string
	Label       string
	Href        string
	Pattern     string
	MatchPrefix bool
	Active      bool
	Class       string
}

// BuildMenu returns the sidebar items with active state resolved from the
// current request path.
func BuildMenu(ctx context.Context, basePath string) []MenuItem {
	base := strings.TrimRight(basePath, "/")
	items := []MenuItem{
		{Key: "dashboard", Label: "Dashboard", Href: orRoot(base), Pattern: orRoot(base)},
		{Key: "orders", Label: "Orders", Href: base + "/orders", Pattern: base + "/orders", MatchPrefix: true},
		{Key: "manual-order", Label: "Manual Order", Href: base + "/orders/manual", Pattern: base + "/orders/manual", MatchPrefix: true},
	}

	for i := range items {
		// The orders item must not light up while composing a manual order.
		active := helpers.NavActive(ctx, items[i].Pattern, items[i].MatchPrefix)
		if items[i].Key == "orders" && helpers.NavActive(ctx, base+"/orders/manual", true) {
			active = false
		}
		items[i].Active = active
		items[i].Class = helpers.NavClass(active)
	}
	return items
}

// AdminName returns the display name for the topbar account chip.
func AdminName(ctx context.Context) string {
	user, ok := middleware.UserFromContext(ctx)
	if !ok || user == nil {
		return ""
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}

func orRoot(base string) string {
	if base == "" {
		return "/"
	}
	return base
}
