package orders

import (
	"context"

	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/notify"
	"github.com/trendora/storefront-admin/internal/admin/observability"
)

// TransitionController turns "mark as X" intents into exactly one PATCH each,
// then forces a full list refresh through the bound store. It never throws:
// every failure degrades to a toast and a false return.
//
// No legality matrix is enforced client-side. Any state may be requested;
// the backend decides which transitions are legal and its rejection is the
// sole source of illegal-transition errors. The UI only avoids sending
// same-value requests by disabling the current status option.
type TransitionController struct {
	svc   Service
	store *Store
}

// NewTransitionController binds a controller to the service and store.
func NewTransitionController(svc Service, store *Store) *TransitionController {
	return &TransitionController{svc: svc, store: store}
}

// UpdateOrderStatus sends one status PATCH. On success the store re-fetches
// with its current filters and page, because the backend may have adjusted
// derived fields the client cannot predict.
func (c *TransitionController) UpdateOrderStatus(ctx context.Context, token, orderID string, status Status, notes string) bool {
	logger := observability.FromContext(ctx)
	toasts := notify.FromContext(ctx)

	if !status.Valid() {
		toasts.Error("Unknown order status requested")
		return false
	}

	_, err := c.svc.UpdateStatus(ctx, token, orderID, StatusUpdate{Status: status, Notes: notes})
	if err != nil {
		logger.Warn("order status update failed",
			zap.String("orderId", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		toasts.Error("Failed to update order status")
		return false
	}

	toasts.Success("Order status updated")
	c.refresh(ctx, token)
	return true
}

// UpdatePaymentStatus sends one payment-status PATCH with the same contract
// as UpdateOrderStatus.
func (c *TransitionController) UpdatePaymentStatus(ctx context.Context, token, orderID string, status PaymentStatus, notes string) bool {
	logger := observability.FromContext(ctx)
	toasts := notify.FromContext(ctx)

	if !status.Valid() {
		toasts.Error("Unknown payment status requested")
		return false
	}

	_, err := c.svc.UpdatePaymentStatus(ctx, token, orderID, PaymentStatusUpdate{Status: status, Notes: notes})
	if err != nil {
		logger.Warn("payment status update failed",
			zap.String("orderId", orderID),
			zap.String("paymentStatus", string(status)),
			zap.Error(err))
		toasts.Error("Failed to update payment status")
		return false
	}

	toasts.Success("Payment status updated")
	c.refresh(ctx, token)
	return true
}

// refresh re-pulls truth from the server. A refresh failure does not undo the
// successful update; it only surfaces its own toast while the previous list
// stays on screen.
func (c *TransitionController) refresh(ctx context.Context, token string) {
	if c.store == nil {
		return
	}
	if err := c.store.Refresh(ctx, token); err != nil {
		observability.FromContext(ctx).Warn("order list refresh failed", zap.Error(err))
		notify.FromContext(ctx).Error("Failed to refresh orders")
	}
}
