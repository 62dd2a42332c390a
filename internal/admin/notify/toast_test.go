package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectorOrdersToasts(t *testing.T) {
	t.Parallel()

	c := &Collector{}
	c.Success("Order status updated")
	c.Error("Failed to refresh orders")

	toasts := c.Toasts()
	require.Len(t, toasts, 2)
	require.Equal(t, ToneSuccess, toasts[0].Tone)
	require.Equal(t, ToneError, toasts[1].Tone)
}

func TestCollectorHXTrigger(t *testing.T) {
	t.Parallel()

	c := &Collector{}
	require.Empty(t, c.HXTrigger())

	c.Info("Export started")
	require.JSONEq(t, `{"toast":[{"message":"Export started","tone":"info"}]}`, c.HXTrigger())
}

func TestFromContextDefaultsToDiscard(t *testing.T) {
	t.Parallel()

	c := FromContext(context.Background())
	require.NotNil(t, c)
	c.Success("dropped")

	ctx, attached := WithCollector(context.Background())
	FromContext(ctx).Success("kept")
	require.Len(t, attached.Toasts(), 1)
}
