package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trendora/storefront-admin/internal/admin/api"
)

func TestClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"value":42}}`))
	}))
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, ts.Client())
	require.NoError(t, err)

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, client.GetEnveloped(context.Background(), "tok-123", "/orders", nil, &out))
	require.Equal(t, "Bearer tok-123", receivedAuth)
	require.Equal(t, 42, out.Value)
}

func TestClientEnvelopeFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"items must not be empty"}`))
	}))
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, ts.Client())
	require.NoError(t, err)

	err = client.PostEnveloped(context.Background(), "tok", "/orders/enhanced/admin/manual-order", map[string]any{}, nil, nil)
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	require.Equal(t, "items must not be empty", apiErr.Message)
}

func TestClientMapsUnauthorized(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, ts.Client())
	require.NoError(t, err)

	err = client.GetEnveloped(context.Background(), "stale", "/orders", nil, nil)
	require.True(t, errors.Is(err, api.ErrUnauthorized))
}

func TestClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := api.NewClient("  ", nil)
	require.Error(t, err)
}
