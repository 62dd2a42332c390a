package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/api"
	"github.com/trendora/storefront-admin/internal/admin/auth"
	"github.com/trendora/storefront-admin/internal/admin/config"
	"github.com/trendora/storefront-admin/internal/admin/dashboard"
	"github.com/trendora/storefront-admin/internal/admin/httpserver"
	"github.com/trendora/storefront-admin/internal/admin/observability"
	"github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/products"
	"github.com/trendora/storefront-admin/internal/admin/session"
	"github.com/trendora/storefront-admin/internal/admin/templates"
)

const ordersPageLimit = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("init logger", zap.Error(err))
	}
	defer logger.Sync()

	client, err := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})
	if err != nil {
		logger.Fatal("init api client", zap.Error(err))
	}

	hashKey, err := cfg.HashKey()
	if err != nil {
		logger.Fatal("session keys", zap.Error(err))
	}
	blockKey, err := cfg.BlockKey()
	if err != nil {
		logger.Fatal("session keys", zap.Error(err))
	}

	sessions, err := session.NewManager(session.Config{
		CookieName:   "admin_session",
		HashKey:      hashKey,
		BlockKey:     blockKey,
		CookiePath:   "/",
		CookieSecure: cfg.CookieSecure,
		Lifetime:     cfg.SessionLifetime,
	})
	if err != nil {
		logger.Fatal("init sessions", zap.Error(err))
	}

	ordersSvc := orders.NewHTTPService(client)
	productsSvc := products.NewHTTPService(client)

	srv := httpserver.New(httpserver.Config{
		Address:        cfg.HTTPAddr,
		BasePath:       cfg.BasePath,
		Sessions:       sessions,
		AuthService:    auth.NewHTTPService(client),
		Dashboard:      dashboard.NewService(ordersSvc),
		Workspaces:     orders.NewWorkspaces(ordersSvc, productsSvc, ordersPageLimit, 0),
		Templates:      templates.MustNew(),
		Logger:         logger,
		SSLRedirect:    cfg.CookieSecure,
		LoginRateLimit: cfg.LoginRateLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	logger.Info("admin server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("basePath", cfg.BasePath))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
		os.Exit(1)
	}
}
