package ui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	custommw "github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/observability"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/templates"
	orderstpl "github.com/trendora/storefront-admin/internal/admin/templates/orders"
)

// ManualOrderPage renders the manual order composer with whatever draft the
// session has staged so far.
func (h *Handlers) ManualOrderPage(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	payload := orderstpl.ManualPagePayload(h.basePath, ws.Manual.Draft(), custommw.CSRFTokenFromContext(r.Context()), "", nil, nil)
	h.renderPage(w, r, templates.PageManualOrder, h.shell(r, payload.Title, payload))
}

// ManualFieldsStage records form changes into the draft without contacting
// the backend. Override values that do not parse are simply left unstaged;
// submission is where they become a hard error.
func (h *Handlers) ManualFieldsStage(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse draft form", http.StatusBadRequest)
		return
	}

	stageDraftFields(ws.Manual, r)
	w.WriteHeader(http.StatusNoContent)
}

// ManualProductSearch serves the variation picker results.
func (h *Handlers) ManualProductSearch(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	results, err := ws.Manual.SearchProducts(r.Context(), token, term)
	if err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("product search", zap.Error(err), zap.String("term", term))
		results = nil
	}

	payload := orderstpl.ProductResultsPayload(h.basePath, term, results, custommw.CSRFTokenFromContext(r.Context()))
	h.renderFragment(w, r, templates.FragmentProductResults, payload, nil)
}

// ManualItemAdd adds a variation to the draft and re-renders the item list.
func (h *Handlers) ManualItemAdd(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse item form", http.StatusBadRequest)
		return
	}

	variationID := strings.TrimSpace(r.PostFormValue("productVariationId"))
	if variationID == "" {
		http.Error(w, "productVariationId is required", http.StatusBadRequest)
		return
	}

	quantity := 1
	if raw := r.PostFormValue("quantity"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			quantity = parsed
		}
	}

	ws.Manual.AddItem(adminorders.ManualItem{
		ProductVariationID: variationID,
		ProductName:        strings.TrimSpace(r.PostFormValue("productName")),
		VariationName:      strings.TrimSpace(r.PostFormValue("variationName")),
		Quantity:           quantity,
	})

	h.renderManualItems(w, r, ws)
}

// ManualItemRemove drops a line item by index and re-renders the item list.
func (h *Handlers) ManualItemRemove(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse item form", http.StatusBadRequest)
		return
	}

	if index, err := strconv.Atoi(r.PostFormValue("index")); err == nil {
		ws.Manual.RemoveItem(index)
	}

	h.renderManualItems(w, r, ws)
}

// ManualItemQuantity changes a line item quantity and re-renders the list.
func (h *Handlers) ManualItemQuantity(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse item form", http.StatusBadRequest)
		return
	}

	index, indexErr := strconv.Atoi(r.PostFormValue("index"))
	quantity, qtyErr := strconv.Atoi(r.PostFormValue("quantity"))
	if indexErr == nil && qtyErr == nil {
		ws.Manual.SetItemQuantity(index, quantity)
	}

	h.renderManualItems(w, r, ws)
}

// ManualSubmit stages the submitted form one last time and sends the draft
// to the backend. Any failure re-renders the composer with the draft intact;
// backend rejection messages are shown as-is.
func (h *Handlers) ManualSubmit(w http.ResponseWriter, r *http.Request) {
	ws, token, ok := h.workspace(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse order form", http.StatusBadRequest)
		return
	}

	csrfToken := custommw.CSRFTokenFromContext(r.Context())

	if fieldErrors := stageDraftFields(ws.Manual, r); len(fieldErrors) > 0 {
		payload := orderstpl.ManualPagePayload(h.basePath, ws.Manual.Draft(), csrfToken,
			"Please correct the highlighted fields.", fieldErrors, nil)
		h.renderPage(w, r, templates.PageManualOrder, h.shell(r, payload.Title, payload))
		return
	}

	result, err := ws.Manual.Submit(r.Context(), token)
	if err != nil {
		var verr *adminorders.ValidationError
		if errors.As(err, &verr) {
			payload := orderstpl.ManualPagePayload(h.basePath, ws.Manual.Draft(), csrfToken,
				verr.Message, verr.FieldErrors, nil)
			h.renderPage(w, r, templates.PageManualOrder, h.shell(r, payload.Title, payload))
			return
		}

		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("manual order submit", zap.Error(err))
		payload := orderstpl.ManualPagePayload(h.basePath, ws.Manual.Draft(), csrfToken,
			"Could not create the order. Please try again shortly.", nil, nil)
		h.renderPage(w, r, templates.PageManualOrder, h.shell(r, payload.Title, payload))
		return
	}

	payload := orderstpl.ManualPagePayload(h.basePath, ws.Manual.Draft(), csrfToken, "", nil, &result)
	h.renderPage(w, r, templates.PageManualOrder, h.shell(r, payload.Title, payload))
}

func (h *Handlers) renderManualItems(w http.ResponseWriter, r *http.Request, ws *adminorders.Workspace) {
	payload := orderstpl.ManualItemsPayload(h.basePath, ws.Manual.Draft(), custommw.CSRFTokenFromContext(r.Context()))
	h.renderFragment(w, r, templates.FragmentManualItems, payload, nil)
}

// stageDraftFields copies the form into the composer. It returns a field
// error per override that does not parse as a decimal; those overrides stay
// unset so the rest of the draft is still preserved.
func stageDraftFields(composer *adminorders.ManualComposer, r *http.Request) map[string]string {
	composer.SetCustomer(
		r.PostFormValue("customerName"),
		r.PostFormValue("email"),
		r.PostFormValue("phone"),
		r.PostFormValue("shippingAddress"),
		r.PostFormValue("billingAddress"),
	)
	composer.SetPayment(
		adminorders.PaymentMethod(r.PostFormValue("paymentMethod")),
		adminorders.PaymentStatus(r.PostFormValue("paymentStatus")),
		adminorders.Status(r.PostFormValue("orderStatus")),
	)
	composer.SetFlags(
		r.PostFormValue("generateInvoice") == "true",
		r.PostFormValue("sendEmailNotification") == "true",
		r.PostFormValue("skipStockValidation") == "true",
		r.PostFormValue("markAsPaid") == "true",
	)

	fieldErrors := make(map[string]string)
	total := parseOverride(r.PostFormValue("customTotalAmount"), "CustomTotalAmount", fieldErrors)
	discount := parseOverride(r.PostFormValue("customDiscountAmount"), "CustomDiscountAmount", fieldErrors)
	shipping := parseOverride(r.PostFormValue("customShippingFee"), "CustomShippingFee", fieldErrors)
	composer.SetOverrides(total, discount, shipping)

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func parseOverride(raw, field string, fieldErrors map[string]string) *decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		fieldErrors[field] = "must be a number"
		return nil
	}
	return &parsed
}
