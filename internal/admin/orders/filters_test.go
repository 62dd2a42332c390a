package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCriteriaDefaultsAreInactive(t *testing.T) {
	t.Parallel()

	criteria := DefaultCriteria()
	require.Zero(t, criteria.ActiveCount())
	require.Equal(t, Query{Page: 1, Limit: 20}, criteria.query(1, 20))
}

func TestCriteriaQueryOmitsAllSentinels(t *testing.T) {
	t.Parallel()

	criteria := Criteria{
		Search:        " INV-1001 ",
		OrderStatus:   "DELIVERED",
		PaymentStatus: "all",
		PaymentMethod: "ALL",
	}

	query := criteria.query(1, 20)
	require.Equal(t, "INV-1001", query.Search)
	require.Equal(t, "DELIVERED", query.OrderStatus)
	require.Empty(t, query.PaymentStatus)
	require.Empty(t, query.PaymentMethod)
}

func TestCriteriaActiveCount(t *testing.T) {
	t.Parallel()

	criteria := DefaultCriteria()
	criteria.Search = "x"
	criteria.PaymentMethod = "BKASH"
	criteria.DateFrom = "2026-02-01"
	require.Equal(t, 3, criteria.ActiveCount())
}
