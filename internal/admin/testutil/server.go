package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/auth"
	"github.com/trendora/storefront-admin/internal/admin/dashboard"
	"github.com/trendora/storefront-admin/internal/admin/httpserver"
	"github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/products"
	appsession "github.com/trendora/storefront-admin/internal/admin/session"
	"github.com/trendora/storefront-admin/internal/admin/templates"
)

// DefaultEmail and DefaultPassword match the fixture account of
// auth.NewStaticService.
const (
	DefaultEmail    = "ops@trendora.com.bd"
	DefaultPassword = "trendora-dev"
)

// serverConfig collects everything NewServer needs to assemble the stack.
type serverConfig struct {
	basePath      string
	orders        adminorders.Service
	catalog       products.Service
	authService   auth.Service
	dashboard     dashboard.Service
	authenticator middleware.Authenticator
}

// ServerOption customises the admin server under test.
type ServerOption func(*serverConfig)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(cfg *serverConfig) { cfg.basePath = path }
}

// WithOrdersService wires a custom backend order service.
func WithOrdersService(service adminorders.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.orders = service }
}

// WithProductsService wires a custom catalog service.
func WithProductsService(service products.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.catalog = service }
}

// WithAuthService wires a custom login service.
func WithAuthService(service auth.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.authService = service }
}

// WithDashboardService wires a custom dashboard service.
func WithDashboardService(service dashboard.Service) ServerOption {
	return func(cfg *serverConfig) { cfg.dashboard = service }
}

// WithAuthenticator overrides the request authenticator.
func WithAuthenticator(a middleware.Authenticator) ServerOption {
	return func(cfg *serverConfig) { cfg.authenticator = a }
}

// NewServer runs the full admin HTTP stack against static backend services.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := serverConfig{
		basePath:    "/admin",
		orders:      adminorders.NewStaticService(),
		catalog:     products.NewStaticService(),
		authService: auth.NewStaticService(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dashboard == nil {
		cfg.dashboard = dashboard.NewService(cfg.orders)
	}

	sessions, err := appsession.NewManager(appsession.Config{
		CookieName: "admin_session",
		HashKey:    bytes.Repeat([]byte("h"), 32),
		BlockKey:   bytes.Repeat([]byte("b"), 32),
		CookiePath: "/",
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	srv := httpserver.New(httpserver.Config{
		Address:       ":0",
		BasePath:      cfg.basePath,
		Sessions:      sessions,
		Authenticator: cfg.authenticator,
		AuthService:   cfg.authService,
		Dashboard:     cfg.dashboard,
		Workspaces:    adminorders.NewWorkspaces(cfg.orders, cfg.catalog, 20, 0),
		Templates:     templates.MustNew(),
		Logger:        zap.NewNop(),
	})

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns an HTTP client with a cookie jar so the session survives
// across requests.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// SignIn performs the login flow against the fixture account and leaves the
// session cookie in the client's jar.
func SignIn(t testing.TB, ts *httptest.Server, client *http.Client, basePath string) {
	t.Helper()

	loginURL := ts.URL + strings.TrimRight(basePath, "/") + "/login"

	res, err := client.Get(loginURL)
	if err != nil {
		t.Fatalf("login form: %v", err)
	}
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatalf("read login form: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login form status: %d", res.StatusCode)
	}

	doc := ParseHTML(t, body)
	token, ok := doc.Find(`input[name="_csrf"]`).Attr("value")
	if !ok || token == "" {
		t.Fatal("login form is missing the csrf token")
	}

	form := url.Values{}
	form.Set("_csrf", token)
	form.Set("email", DefaultEmail)
	form.Set("password", DefaultPassword)

	res, err = client.PostForm(loginURL, form)
	if err != nil {
		t.Fatalf("login submit: %v", err)
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login submit status: %d", res.StatusCode)
	}
}
