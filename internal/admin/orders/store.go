package orders

import (
	"context"
	"sync"
)

const defaultPageLimit = 20

// Store is the single source of truth for the currently displayed page of
// orders. It holds the list, the server pagination envelope and both the
// staged and applied filter criteria. Reads and writes to the backend go
// through the Service; nothing else mutates the store.
type Store struct {
	svc   Service
	limit int

	mu         sync.Mutex
	staged     Criteria
	applied    Criteria
	orders     []Order
	pagination Pagination
	page       int
	loading    bool
	loaded     bool
	generation uint64
}

// NewStore constructs an empty store bound to the given backend service.
func NewStore(svc Service, limit int) *Store {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return &Store{
		svc:     svc,
		limit:   limit,
		staged:  DefaultCriteria(),
		applied: DefaultCriteria(),
		page:    1,
	}
}

// SetSearch stages the free-text search criterion. No fetch is triggered.
func (s *Store) SetSearch(value string) { s.stage(func(c *Criteria) { c.Search = value }) }

// SetOrderStatus stages the order-status criterion.
func (s *Store) SetOrderStatus(value string) { s.stage(func(c *Criteria) { c.OrderStatus = value }) }

// SetPaymentStatus stages the payment-status criterion.
func (s *Store) SetPaymentStatus(value string) {
	s.stage(func(c *Criteria) { c.PaymentStatus = value })
}

// SetPaymentMethod stages the payment-method criterion.
func (s *Store) SetPaymentMethod(value string) {
	s.stage(func(c *Criteria) { c.PaymentMethod = value })
}

// SetDateFrom stages the lower bound of the creation-date range.
func (s *Store) SetDateFrom(value string) { s.stage(func(c *Criteria) { c.DateFrom = value }) }

// SetDateTo stages the upper bound of the creation-date range.
func (s *Store) SetDateTo(value string) { s.stage(func(c *Criteria) { c.DateTo = value }) }

// StageCriteria replaces the whole staged criteria set at once.
func (s *Store) StageCriteria(c Criteria) { s.stage(func(dst *Criteria) { *dst = c }) }

func (s *Store) stage(mutate func(*Criteria)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.staged)
}

// StagedCriteria returns the criteria as currently staged.
func (s *Store) StagedCriteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// AppliedCriteria returns the criteria of the last applied filter set.
func (s *Store) AppliedCriteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// ActiveFilterCount is the badge value: staged criteria that differ from
// their defaults.
func (s *Store) ActiveFilterCount() int {
	return s.StagedCriteria().ActiveCount()
}

// ApplyFilters commits the staged criteria and fetches page 1. Changing
// filters invalidates the meaning of "page N", so apply always resets.
func (s *Store) ApplyFilters(ctx context.Context, token string) error {
	s.mu.Lock()
	s.applied = s.staged
	criteria := s.applied
	s.mu.Unlock()
	return s.fetch(ctx, token, 1, criteria)
}

// ClearAllFilters resets every criterion to its default and immediately
// applies, yielding an unconstrained page-1 fetch.
func (s *Store) ClearAllFilters(ctx context.Context, token string) error {
	s.mu.Lock()
	s.staged = DefaultCriteria()
	s.applied = s.staged
	criteria := s.applied
	s.mu.Unlock()
	return s.fetch(ctx, token, 1, criteria)
}

// Fetch loads the requested page using the applied criteria.
func (s *Store) Fetch(ctx context.Context, token string, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	criteria := s.applied
	s.mu.Unlock()
	return s.fetch(ctx, token, page, criteria)
}

// Refresh re-pulls the current page with the applied criteria. Used after
// mutations so the list stays authoritative instead of patching locally.
func (s *Store) Refresh(ctx context.Context, token string) error {
	s.mu.Lock()
	page := s.page
	criteria := s.applied
	s.mu.Unlock()
	return s.fetch(ctx, token, page, criteria)
}

func (s *Store) fetch(ctx context.Context, token string, page int, criteria Criteria) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	result, err := s.svc.List(ctx, token, criteria.query(page, s.limit))

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.generation {
		s.loading = false
	}
	if err != nil {
		// Previous list stays on screen; the caller surfaces the error.
		return err
	}
	if gen != s.generation {
		// A newer fetch has been issued; this response is stale.
		return nil
	}

	s.orders = result.Orders
	s.pagination = result.Pagination
	if result.Pagination.Page > 0 {
		s.page = result.Pagination.Page
	} else {
		s.page = page
	}
	s.loaded = true
	return nil
}

// Detail fetches one listed order with its line items embedded. The list
// endpoint is the only read surface the backend exposes, so the lookup
// searches by the order's number and picks the matching ID out of the
// result. The store's own list and pagination are left untouched.
func (s *Store) Detail(ctx context.Context, token, id string) (Order, error) {
	s.mu.Lock()
	var number string
	for i := range s.orders {
		if s.orders[i].ID == id {
			number = s.orders[i].OrderNumber
			break
		}
	}
	s.mu.Unlock()
	if number == "" {
		return Order{}, ErrOrderNotFound
	}

	result, err := s.svc.List(ctx, token, Query{Page: 1, Limit: s.limit, Search: number, IncludeItems: true})
	if err != nil {
		return Order{}, err
	}
	for _, order := range result.Orders {
		if order.ID == id {
			return order, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

// Orders returns a copy of the current page of orders.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}

// Pagination returns the server pagination envelope verbatim.
func (s *Store) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Page returns the page of the last successful fetch.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Loaded reports whether at least one fetch has completed successfully.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
