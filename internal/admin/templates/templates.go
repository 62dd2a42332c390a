// Package templates renders the admin UI. Page and fragment markup lives in
// embedded html/template files; rendered output is exposed as templ
// components so handlers serve everything through templ.Handler.
package templates

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"

	"github.com/trendora/storefront-admin/internal/admin/templates/helpers"
	"github.com/trendora/storefront-admin/internal/admin/templates/partials"
)

//go:embed *.tmpl
var files embed.FS

// Page template names.
const (
	PageLogin       = "login"
	PageDashboard   = "dashboard"
	PageOrders      = "orders_index"
	PageManualOrder = "manual_order"
)

// Fragment template names.
const (
	FragmentOrdersTable    = "orders_table"
	FragmentOrderDetail    = "order_detail"
	FragmentStatusModal    = "status_modal"
	FragmentPaymentModal   = "payment_modal"
	FragmentManualItems    = "manual_items"
	FragmentProductResults = "product_results"
)

// pageFiles maps each page to the template files it is parsed with. Pages
// that embed fragments inline parse the fragment files too.
var pageFiles = map[string][]string{
	PageLogin:       {"login.tmpl"},
	PageDashboard:   {"layout.tmpl", "dashboard.tmpl"},
	PageOrders:      {"layout.tmpl", "orders_index.tmpl", "orders_table.tmpl"},
	PageManualOrder: {"layout.tmpl", "manual_order.tmpl", "manual_items.tmpl"},
}

var fragmentFiles = []string{
	"orders_table.tmpl",
	"order_detail.tmpl",
	"status_modal.tmpl",
	"payment_modal.tmpl",
	"manual_items.tmpl",
	"product_results.tmpl",
}

var funcMap = template.FuncMap{
	"money":      helpers.Money,
	"date":       helpers.Date,
	"relative":   helpers.Relative,
	"title":      helpers.TitleCase,
	"badgeClass": helpers.BadgeClass,
	"navClass":   helpers.NavClass,
}

// Shell wraps a page payload with the chrome every authenticated page needs.
type Shell struct {
	Title     string
	BasePath  string
	Menu      []partials.MenuItem
	AdminName string
	CSRFToken string
	Data      any
}

// Engine holds the parsed template cache. Templates are parsed once at
// startup; a parse failure is a programming error surfaced immediately.
type Engine struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New parses every page and fragment template.
func New() (*Engine, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for name, set := range pageFiles {
		t, err := template.New(set[0]).Funcs(funcMap).ParseFS(files, set...)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	fragments, err := template.New(fragmentFiles[0]).Funcs(funcMap).ParseFS(files, fragmentFiles...)
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}

	return &Engine{pages: pages, fragments: fragments}, nil
}

// MustNew is New for wiring paths where a parse error is fatal.
func MustNew() *Engine {
	engine, err := New()
	if err != nil {
		panic(err)
	}
	return engine
}

// Page returns the named page as a templ component.
func (e *Engine) Page(name string, shell Shell) (templ.Component, error) {
	t, ok := e.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page template %q", name)
	}
	root := t.Lookup(name)
	if root == nil {
		return nil, fmt.Errorf("page template %q has no root definition", name)
	}
	return templ.FromGoHTML(root, shell), nil
}

// Fragment returns the named fragment as a templ component.
func (e *Engine) Fragment(name string, data any) (templ.Component, error) {
	t := e.fragments.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("unknown fragment template %q", name)
	}
	return templ.FromGoHTML(t, data), nil
}
