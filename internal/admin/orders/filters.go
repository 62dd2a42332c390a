package orders

import "strings"

// FilterAll is the sentinel option meaning "no constraint" for the select
// based criteria. It is normalized away before the query reaches the wire.
const FilterAll = "all"

// Criteria is the ephemeral, client-only filter state. Criteria are staged
// first and only take effect when applied, so typing in the search box never
// costs a request per keystroke.
type Criteria struct {
	Search        string
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
	DateFrom      string
	DateTo        string
}

// DefaultCriteria returns the unconstrained criteria set.
func DefaultCriteria() Criteria {
	return Criteria{
		OrderStatus:   FilterAll,
		PaymentStatus: FilterAll,
		PaymentMethod: FilterAll,
	}
}

// ActiveCount reports how many criteria differ from their default. Display
// only; it never influences query construction.
func (c Criteria) ActiveCount() int {
	count := 0
	if strings.TrimSpace(c.Search) != "" {
		count++
	}
	for _, v := range []string{c.OrderStatus, c.PaymentStatus, c.PaymentMethod} {
		if !isAll(v) {
			count++
		}
	}
	if strings.TrimSpace(c.DateFrom) != "" {
		count++
	}
	if strings.TrimSpace(c.DateTo) != "" {
		count++
	}
	return count
}

// query converts the criteria into a wire query, dropping every "all"/empty
// value so the backend sees absence instead of a sentinel.
func (c Criteria) query(page, limit int) Query {
	return Query{
		Page:          page,
		Limit:         limit,
		OrderStatus:   normalizeChoice(c.OrderStatus),
		PaymentStatus: normalizeChoice(c.PaymentStatus),
		PaymentMethod: normalizeChoice(c.PaymentMethod),
		Search:        strings.TrimSpace(c.Search),
		DateFrom:      strings.TrimSpace(c.DateFrom),
		DateTo:        strings.TrimSpace(c.DateTo),
	}
}

func normalizeChoice(value string) string {
	if isAll(value) {
		return ""
	}
	return strings.TrimSpace(value)
}

func isAll(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, FilterAll)
}
