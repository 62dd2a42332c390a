package orders

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/trendora/storefront-admin/internal/admin/api"
)

type fakeManualService struct {
	fakeService

	createCalls []ManualDraft
	createKeys  []string
	createFn    func(ManualDraft) (ManualResult, error)
}

func (f *fakeManualService) CreateManualOrder(_ context.Context, _ string, draft ManualDraft, key string) (ManualResult, error) {
	f.createCalls = append(f.createCalls, draft)
	f.createKeys = append(f.createKeys, key)
	if f.createFn == nil {
		return ManualResult{Order: Order{ID: "ord_new", OrderNumber: "INV-9000", ItemCount: len(draft.Items)}}, nil
	}
	return f.createFn(draft)
}

func stagedComposer(svc Service) *ManualComposer {
	composer := NewManualComposer(svc, nil)
	composer.SetCustomer("Farhana Rahman", "farhana@example.com", "+8801711000021", "Dhanmondi, Dhaka", "")
	composer.SetPayment(MethodBkash, PaymentPending, StatusPending)
	composer.AddItem(ManualItem{ProductVariationID: "var-101", Quantity: 1})
	composer.AddItem(ManualItem{ProductVariationID: "var-201", Quantity: 1})
	return composer
}

func TestManualSubmitRoundTrip(t *testing.T) {
	t.Parallel()

	svc := &fakeManualService{}
	composer := stagedComposer(svc)

	result, err := composer.Submit(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "INV-9000", result.Order.OrderNumber)
	require.Equal(t, 2, result.Order.LineItemCount())

	require.Len(t, svc.createCalls, 1)
	require.Len(t, svc.createCalls[0].Items, 2)
	require.NotEmpty(t, svc.createKeys[0], "submission carries an idempotency key")

	// Success discards the draft.
	require.Empty(t, composer.Draft().Items)
	require.Empty(t, composer.Draft().CustomerName)
}

func TestManualSubmitFailurePreservesDraft(t *testing.T) {
	t.Parallel()

	svc := &fakeManualService{
		createFn: func(ManualDraft) (ManualResult, error) {
			return ManualResult{}, &api.Error{Status: http.StatusUnprocessableEntity, Message: "variation var-201 is out of stock"}
		},
	}
	composer := stagedComposer(svc)
	before := composer.Draft()

	_, err := composer.Submit(context.Background(), "tok")
	require.Error(t, err)
	require.EqualError(t, err, "variation var-201 is out of stock", "backend message must be surfaced verbatim")
	require.Equal(t, before, composer.Draft(), "draft must be preserved for correction")
}

func TestManualSubmitValidatesLocally(t *testing.T) {
	t.Parallel()

	svc := &fakeManualService{}
	composer := NewManualComposer(svc, nil)
	composer.SetCustomer("", "not-an-email", "", "", "")

	_, err := composer.Submit(context.Background(), "tok")
	require.Error(t, err)
	require.Empty(t, svc.createCalls, "invalid drafts never reach the backend")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.FieldErrors, "CustomerName")
	require.Contains(t, vErr.FieldErrors, "Email")
	require.Contains(t, vErr.FieldErrors, "Items")
	require.Equal(t, "needs at least 1 entry", vErr.FieldErrors["Items"], "an itemless draft gets the item-count message")
}

func TestManualAddItemMergesSameVariation(t *testing.T) {
	t.Parallel()

	composer := NewManualComposer(&fakeManualService{}, nil)
	composer.AddItem(ManualItem{ProductVariationID: "var-101", Quantity: 1})
	composer.AddItem(ManualItem{ProductVariationID: "var-101", Quantity: 2})

	draft := composer.Draft()
	require.Len(t, draft.Items, 1)
	require.Equal(t, 3, draft.Items[0].Quantity)
}

func TestManualOverridesPassThroughUnreconciled(t *testing.T) {
	t.Parallel()

	svc := &fakeManualService{}
	composer := stagedComposer(svc)

	itemPrice := decimal.NewFromInt(999)
	orderTotal := decimal.NewFromInt(1)
	composer.RemoveItem(1)
	composer.RemoveItem(0)
	composer.AddItem(ManualItem{ProductVariationID: "var-101", Quantity: 1, CustomPrice: &itemPrice})
	composer.SetOverrides(&orderTotal, nil, nil)

	_, err := composer.Submit(context.Background(), "tok")
	require.NoError(t, err)

	// Conflicting per-item and order-level overrides are submitted as-is;
	// precedence is the backend's concern.
	sent := svc.createCalls[0]
	require.True(t, sent.Items[0].CustomPrice.Equal(itemPrice))
	require.True(t, sent.CustomTotalAmount.Equal(orderTotal))
}

func TestManualRemoveAndQuantityBounds(t *testing.T) {
	t.Parallel()

	composer := NewManualComposer(&fakeManualService{}, nil)
	composer.AddItem(ManualItem{ProductVariationID: "var-101", Quantity: 2})

	composer.RemoveItem(5)
	composer.SetItemQuantity(0, 0)
	require.Equal(t, 2, composer.Draft().Items[0].Quantity)

	composer.SetItemQuantity(0, 7)
	require.Equal(t, 7, composer.Draft().Items[0].Quantity)

	composer.RemoveItem(0)
	require.Empty(t, composer.Draft().Items)
}
