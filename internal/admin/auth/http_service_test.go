package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trendora/storefront-admin/internal/admin/api"
	"github.com/trendora/storefront-admin/internal/admin/auth"
)

func TestHTTPServiceLogin(t *testing.T) {
	t.Parallel()

	var payload map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admins/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":    "tok-abc",
			"id":       "admin-1",
			"email":    "ops@example.com",
			"username": "ops",
		})
	}))
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, ts.Client())
	require.NoError(t, err)

	creds, err := auth.NewHTTPService(client).Login(context.Background(), "ops@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "tok-abc", creds.Token)
	require.Equal(t, "admin-1", creds.AdminID)
	require.Equal(t, "ops", creds.Username)
	require.False(t, creds.IssuedAt.IsZero())
	require.Equal(t, "ops@example.com", payload["email"])
	require.Equal(t, "s3cret", payload["password"])
}

func TestHTTPServiceLoginRejected(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = auth.NewHTTPService(client).Login(context.Background(), "ops@example.com", "wrong")
	require.True(t, errors.Is(err, auth.ErrInvalidLogin))
}

func TestHTTPServiceLoginRequiresInput(t *testing.T) {
	t.Parallel()

	client, err := api.NewClient("http://backend.invalid", nil)
	require.NoError(t, err)

	_, err = auth.NewHTTPService(client).Login(context.Background(), "", "")
	require.True(t, errors.Is(err, auth.ErrInvalidLogin))
}
