package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/auth"
	"github.com/trendora/storefront-admin/internal/admin/dashboard"
	custommw "github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/httpserver/ui"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	appsession "github.com/trendora/storefront-admin/internal/admin/session"
	"github.com/trendora/storefront-admin/internal/admin/templates"
	"github.com/trendora/storefront-admin/public"
)

// Config holds runtime options for the admin HTTP server.
type Config struct {
	Address   string
	BasePath  string
	LoginPath string

	Sessions      *appsession.Manager
	Authenticator custommw.Authenticator
	AuthService   auth.Service
	Dashboard     dashboard.Service
	Workspaces    *adminorders.Workspaces
	Templates     *templates.Engine
	Logger        *zap.Logger

	// SSLRedirect forces https scheme handling in the security headers
	// middleware; leave it off behind a terminating proxy in dev.
	SSLRedirect bool

	// LoginRateLimit caps login attempts per IP per minute. Zero uses the
	// default.
	LoginRateLimit int
}

const defaultLoginRateLimit = 10

// New constructs the admin HTTP server: middleware stack, embedded assets
// and the full route table.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	basePath := normalizeBasePath(cfg.BasePath)
	loginPath := resolveLoginPath(basePath, cfg.LoginPath)

	authenticator := cfg.Authenticator
	if authenticator == nil {
		authenticator = custommw.SessionAuthenticator()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(custommw.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))
	router.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
		SSLRedirect:        cfg.SSLRedirect,
	}).Handler)

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal("embed static assets", zap.Error(err))
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))

	handlers := ui.NewHandlers(ui.Dependencies{
		Templates:  cfg.Templates,
		Workspaces: cfg.Workspaces,
		Dashboard:  cfg.Dashboard,
		BasePath:   basePath,
		LoginPath:  loginPath,
	})
	authH := newAuthHandlers(cfg.AuthService, cfg.Templates, cfg.Workspaces, basePath, loginPath)

	loginLimit := cfg.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = defaultLoginRateLimit
	}

	router.Route(basePath, func(r chi.Router) {
		r.Use(custommw.RequestInfo(basePath))
		r.Use(custommw.Session(cfg.Sessions))
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.CSRF())

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(loginLimit, time.Minute))
			r.Get("/login", authH.LoginForm)
			r.Post("/login", authH.LoginSubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(custommw.Auth(authenticator, loginPath))

			r.Get("/", handlers.Dashboard)
			r.Post("/logout", authH.Logout)

			r.Get("/orders", handlers.OrdersPage)
			r.With(custommw.RequireHTMX()).Get("/orders/table", handlers.OrdersTable)
			r.Post("/orders/filters", handlers.OrdersFiltersStage)
			r.Post("/orders/filters/apply", handlers.OrdersFiltersApply)
			r.Post("/orders/filters/clear", handlers.OrdersFiltersClear)
			r.With(custommw.RequireHTMX()).Get("/orders/{orderID}/detail", handlers.OrderDetail)
			r.With(custommw.RequireHTMX()).Get("/orders/{orderID}/status-modal", handlers.OrderStatusModal)
			r.With(custommw.RequireHTMX()).Get("/orders/{orderID}/payment-modal", handlers.OrderPaymentModal)
			r.Post("/orders/{orderID}/status", handlers.OrderStatusSubmit)
			r.Post("/orders/{orderID}/payment-status", handlers.OrderPaymentSubmit)

			r.Get("/orders/manual", handlers.ManualOrderPage)
			r.Post("/orders/manual", handlers.ManualSubmit)
			r.Post("/orders/manual/fields", handlers.ManualFieldsStage)
			r.With(custommw.RequireHTMX()).Get("/orders/manual/products", handlers.ManualProductSearch)
			r.Post("/orders/manual/items", handlers.ManualItemAdd)
			r.Post("/orders/manual/items/remove", handlers.ManualItemRemove)
			r.Post("/orders/manual/items/quantity", handlers.ManualItemQuantity)
		})
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func normalizeBasePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return "/admin"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

func resolveLoginPath(base, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if base == "/" {
		return "/login"
	}
	return base + "/login"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
