package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "small amount", amount: "450", want: "৳450.00"},
		{name: "thousands separator", amount: "1250.5", want: "৳1,250.50"},
		{name: "large amount", amount: "1234567.89", want: "৳1,234,567.89"},
		{name: "zero", amount: "0", want: "৳0.00"},
		{name: "negative", amount: "-99.9", want: "-৳99.90"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Money(decimal.RequireFromString(tc.amount))
			if got != tc.want {
				t.Errorf("Money(%s) = %q, want %q", tc.amount, got, tc.want)
			}
		})
	}
}

func TestMoneyPtr(t *testing.T) {
	t.Parallel()

	if got := MoneyPtr(nil, "auto"); got != "auto" {
		t.Errorf("expected fallback for nil amount, got %q", got)
	}
	amount := decimal.RequireFromString("120")
	if got := MoneyPtr(&amount, "auto"); got != "৳120.00" {
		t.Errorf("unexpected formatted amount: %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "CASH_ON_DELIVERY", want: "Cash On Delivery"},
		{in: "BKASH", want: "Bkash"},
		{in: "pending", want: "Pending"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		if got := TitleCase(tc.in); got != tc.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassList(t *testing.T) {
	t.Parallel()

	got := ClassList("a", "", "  ", "b c")
	if got != "a b c" {
		t.Errorf("unexpected class list: %q", got)
	}
}

func TestHighlightSegments(t *testing.T) {
	t.Parallel()

	segments := HighlightSegments("Classic Panjabi / Navy / M", "panjabi")
	require.Equal(t, []HighlightSegment{
		{Text: "Classic "},
		{Text: "Panjabi", Match: true},
		{Text: " / Navy / M"},
	}, segments)

	require.Equal(t, []HighlightSegment{{Text: "Classic Panjabi"}}, HighlightSegments("Classic Panjabi", "  "))
	require.Nil(t, HighlightSegments("", "panjabi"))
}
