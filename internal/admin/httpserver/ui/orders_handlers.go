package ui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommw "github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/notify"
	"github.com/trendora/storefront-admin/internal/admin/observability"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/templates"
	orderstpl "github.com/trendora/storefront-admin/internal/admin/templates/orders"
)

const ordersLoadError = "Could not load orders. Please try again shortly."

// OrdersPage renders the orders index page. The first visit fetches page 1
// with the applied criteria; later visits re-fetch the page the operator was
// on so the list is current without losing their position.
func (h *Handlers) OrdersPage(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	errMsg := ""
	var err error
	if ws.Store.Loaded() {
		err = ws.Store.Refresh(r.Context(), token)
	} else {
		err = ws.Store.Fetch(r.Context(), token, 1)
	}
	if err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("orders list", zap.Error(err))
		errMsg = ordersLoadError
	}

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), errMsg)
	page := orderstpl.BuildPageData(h.basePath, ws.Store.StagedCriteria(), table, custommw.CSRFTokenFromContext(r.Context()))

	h.renderPage(w, r, templates.PageOrders, h.shell(r, page.Title, page))
}

// OrdersTable serves the table fragment for pagination requests.
func (h *Handlers) OrdersTable(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	page := ws.Store.Page()
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	errMsg := ""
	if err := ws.Store.Fetch(r.Context(), token, page); err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("orders page fetch", zap.Error(err), zap.Int("page", page))
		errMsg = ordersLoadError
	}

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), errMsg)
	h.renderFragment(w, r, templates.FragmentOrdersTable, table, nil)
}

// OrdersFiltersStage records filter form changes without fetching anything.
// The criteria only take effect when the operator applies them.
func (h *Handlers) OrdersFiltersStage(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse filter form", http.StatusBadRequest)
		return
	}

	ws.Store.StageCriteria(criteriaFromForm(r))
	w.WriteHeader(http.StatusNoContent)
}

// OrdersFiltersApply applies the submitted criteria and reloads from page 1.
func (h *Handlers) OrdersFiltersApply(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse filter form", http.StatusBadRequest)
		return
	}
	ws.Store.StageCriteria(criteriaFromForm(r))

	errMsg := ""
	if err := ws.Store.ApplyFilters(r.Context(), token); err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("apply filters", zap.Error(err))
		errMsg = ordersLoadError
	}

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), errMsg)
	h.renderFragment(w, r, templates.FragmentOrdersTable, table, nil)
}

// OrdersFiltersClear drops every criterion and reloads the unfiltered list.
func (h *Handlers) OrdersFiltersClear(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	errMsg := ""
	if err := ws.Store.ClearAllFilters(r.Context(), token); err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("clear filters", zap.Error(err))
		errMsg = ordersLoadError
	}

	// The filter form lives outside the swapped fragment; this event tells
	// the page to reset its controls.
	w.Header().Set("HX-Trigger-After-Swap", `{"filters-cleared":true}`)

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), errMsg)
	h.renderFragment(w, r, templates.FragmentOrdersTable, table, nil)
}

// OrderDetail renders the detail modal for one listed order, re-fetching it
// with line items embedded.
func (h *Handlers) OrderDetail(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	order, err := ws.Store.Detail(r.Context(), token, orderIDParam(r))
	if errors.Is(err, adminorders.ErrOrderNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("order detail fetch failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	h.renderFragment(w, r, templates.FragmentOrderDetail, orderstpl.DetailPayload(order), nil)
}

// OrderStatusModal renders the status transition modal for one order.
func (h *Handlers) OrderStatusModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	order, found := findOrder(ws.Store.Orders(), orderIDParam(r))
	if !found {
		http.NotFound(w, r)
		return
	}

	modal := orderstpl.StatusModalPayload(h.basePath, order, custommw.CSRFTokenFromContext(r.Context()))
	h.renderFragment(w, r, templates.FragmentStatusModal, modal, nil)
}

// OrderPaymentModal renders the payment transition modal for one order.
func (h *Handlers) OrderPaymentModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	order, found := findOrder(ws.Store.Orders(), orderIDParam(r))
	if !found {
		http.NotFound(w, r)
		return
	}

	modal := orderstpl.PaymentModalPayload(h.basePath, order, custommw.CSRFTokenFromContext(r.Context()))
	h.renderFragment(w, r, templates.FragmentPaymentModal, modal, nil)
}

// OrderStatusSubmit performs one status transition and re-renders the table.
// Success and failure both surface as toasts; the table reflects whatever
// the store holds after the attempt.
func (h *Handlers) OrderStatusSubmit(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse status form", http.StatusBadRequest)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	status := adminorders.Status(r.PostFormValue("orderStatus"))
	notes := strings.TrimSpace(r.PostFormValue("notes"))
	ws.Transitions.UpdateOrderStatus(ctx, token, orderIDParam(r), status, notes)

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), "")
	h.renderFragment(w, r, templates.FragmentOrdersTable, table, collector)
}

// OrderPaymentSubmit performs one payment-status transition and re-renders
// the table.
func (h *Handlers) OrderPaymentSubmit(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse payment form", http.StatusBadRequest)
		return
	}

	ctx, collector := notify.WithCollector(r.Context())
	status := adminorders.PaymentStatus(r.PostFormValue("paymentStatus"))
	notes := strings.TrimSpace(r.PostFormValue("notes"))
	ws.Transitions.UpdatePaymentStatus(ctx, token, orderIDParam(r), status, notes)

	table := orderstpl.TablePayload(h.basePath, ws.Store.Orders(), ws.Store.Pagination(), ws.Store.Loading(), "")
	h.renderFragment(w, r, templates.FragmentOrdersTable, table, collector)
}

func criteriaFromForm(r *http.Request) adminorders.Criteria {
	return adminorders.Criteria{
		Search:        strings.TrimSpace(r.PostFormValue("search")),
		OrderStatus:   r.PostFormValue("orderStatus"),
		PaymentStatus: r.PostFormValue("paymentStatus"),
		PaymentMethod: r.PostFormValue("paymentMethod"),
		DateFrom:      strings.TrimSpace(r.PostFormValue("dateFrom")),
		DateTo:        strings.TrimSpace(r.PostFormValue("dateTo")),
	}
}

func orderIDParam(r *http.Request) string {
	return chi.URLParam(r, "orderID")
}

func findOrder(list []adminorders.Order, id string) (adminorders.Order, bool) {
	for _, order := range list {
		if order.ID == id {
			return order, true
		}
	}
	return adminorders.Order{}, false
}
