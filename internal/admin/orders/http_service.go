package orders

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/trendora/storefront-admin/internal/admin/api"
)

// HTTPService implements Service against the storefront backend REST API.
type HTTPService struct {
	client *api.Client
}

// NewHTTPService constructs an HTTPService on top of the shared API client.
func NewHTTPService(client *api.Client) *HTTPService {
	return &HTTPService{client: client}
}

// List fetches one page of orders. Unset query fields are omitted from the
// request; the backend treats absence as "no constraint".
func (s *HTTPService) List(ctx context.Context, token string, query Query) (ListResult, error) {
	values := url.Values{}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	setNonEmpty(values, "orderStatus", query.OrderStatus)
	setNonEmpty(values, "paymentStatus", query.PaymentStatus)
	setNonEmpty(values, "paymentMethod", query.PaymentMethod)
	setNonEmpty(values, "search", query.Search)
	setNonEmpty(values, "dateFrom", query.DateFrom)
	setNonEmpty(values, "dateTo", query.DateTo)
	if query.IncludeItems {
		values.Set("includeItems", "true")
	}

	var result ListResult
	if err := s.client.GetEnveloped(ctx, token, "/orders", values, &result); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// UpdateStatus sends exactly one PATCH for the requested transition and
// returns the updated order as the backend reports it.
func (s *HTTPService) UpdateStatus(ctx context.Context, token, orderID string, update StatusUpdate) (Order, error) {
	var order Order
	path := "/orders/enhanced/" + url.PathEscape(orderID) + "/status"
	if err := s.client.PatchEnveloped(ctx, token, path, update, &order); err != nil {
		return Order{}, mapOrderError(err)
	}
	return order, nil
}

// UpdatePaymentStatus sends exactly one PATCH for the requested payment
// transition and returns the updated order.
func (s *HTTPService) UpdatePaymentStatus(ctx context.Context, token, orderID string, update PaymentStatusUpdate) (Order, error) {
	var order Order
	path := "/orders/enhanced/" + url.PathEscape(orderID) + "/payment-status"
	if err := s.client.PatchEnveloped(ctx, token, path, update, &order); err != nil {
		return Order{}, mapOrderError(err)
	}
	return order, nil
}

// CreateManualOrder submits the full draft as one request. The idempotency
// key guards against double submission on retries.
func (s *HTTPService) CreateManualOrder(ctx context.Context, token string, draft ManualDraft, idempotencyKey string) (ManualResult, error) {
	headers := http.Header{}
	if strings.TrimSpace(idempotencyKey) != "" {
		headers.Set("Idempotency-Key", idempotencyKey)
	}

	var result ManualResult
	if err := s.client.PostEnveloped(ctx, token, "/orders/enhanced/admin/manual-order", draft, &result, headers); err != nil {
		return ManualResult{}, err
	}
	return result, nil
}

func setNonEmpty(values url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		values.Set(key, value)
	}
}

func mapOrderError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrOrderNotFound
	}
	return err
}
