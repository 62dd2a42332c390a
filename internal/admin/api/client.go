// Package api implements the shared REST client for the storefront backend.
// Every admin-scoped service (orders, products, auth) issues its calls through
// this client so bearer handling, envelope decoding and error mapping stay in
// one place.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// ErrUnauthorized indicates the backend rejected the bearer token. Callers
// treat this as authoritative and destroy the local session.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error carries a non-2xx backend response. Message preserves the backend's
// text verbatim so validation failures can be shown to the operator unchanged.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", msg, e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) detect rejected tokens.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the storefront backend API.
type Client struct {
	base *url.URL
	http HTTPClient
}

// NewClient constructs a backend API client rooted at baseURL.
func NewClient(baseURL string, client HTTPClient) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: parsed, http: client}, nil
}

// envelope mirrors the backend's {success, message, data} wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Get issues a GET request and decodes the raw JSON body into out.
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.roundTrip(ctx, http.MethodGet, token, path, query, nil, nil, out, false)
}

// GetEnveloped issues a GET request and decodes the envelope's data field into out.
func (c *Client) GetEnveloped(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.roundTrip(ctx, http.MethodGet, token, path, query, nil, nil, out, true)
}

// Post issues a JSON POST request and decodes the raw body into out.
func (c *Client) Post(ctx context.Context, token, path string, body, out any) error {
	return c.roundTrip(ctx, http.MethodPost, token, path, nil, body, nil, out, false)
}

// PostEnveloped issues a JSON POST request and decodes the envelope's data field into out.
func (c *Client) PostEnveloped(ctx context.Context, token, path string, body, out any, headers http.Header) error {
	return c.roundTrip(ctx, http.MethodPost, token, path, nil, body, headers, out, true)
}

// PatchEnveloped issues a JSON PATCH request and decodes the envelope's data field into out.
func (c *Client) PatchEnveloped(ctx context.Context, token, path string, body, out any) error {
	return c.roundTrip(ctx, http.MethodPatch, token, path, nil, body, nil, out, true)
}

func (c *Client) roundTrip(ctx context.Context, method, token, path string, query url.Values, body any, headers http.Header, out any, enveloped bool) error {
	req, err := c.newRequest(ctx, method, path, query, body, token, headers)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}

	if !enveloped {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("api: decode %s %s data: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, token string, headers http.Header) (*http.Request, error) {
	target := *c.base
	target.Path = strings.TrimRight(target.Path, "/") + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return req, nil
}

// errorFromResponse maps a non-2xx response to an *Error, preferring the
// backend's own message field when the body carries one.
func errorFromResponse(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Message) != "" {
		apiErr.Message = env.Message
		return apiErr
	}
	var fallback struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &fallback); err == nil {
		if fallback.Message != "" {
			apiErr.Message = fallback.Message
		} else if fallback.Error != "" {
			apiErr.Message = fallback.Error
		}
	}
	return apiErr
}
