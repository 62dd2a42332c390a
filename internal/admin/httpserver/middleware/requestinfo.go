package middleware

import (
	"context"
	"net/http"
	"strings"
)

type routeInfoKeyType int

const routeInfoKey routeInfoKeyType = iota

// routeInfo carries the request path and admin base path into template
// helpers, which only see a context.
type routeInfo struct {
	path     string
	basePath string
}

// RequestInfo annotates the context with the current request path and the
// resolved admin base path. Navigation helpers use it to highlight the
// active menu item.
func RequestInfo(basePath string) func(http.Handler) http.Handler {
	base := normalizeBase(basePath)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := &routeInfo{path: r.URL.Path, basePath: base}
			ctx := context.WithValue(r.Context(), routeInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestPathFromContext returns the request path, or "" outside a request.
func RequestPathFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(routeInfoKey).(*routeInfo); ok && info != nil {
		return info.path
	}
	return ""
}

// BasePathFromContext returns the admin base path, or "/" outside a request.
func BasePathFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(routeInfoKey).(*routeInfo); ok && info != nil && info.basePath != "" {
		return info.basePath
	}
	return "/"
}

func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	if base != "/" {
		base = strings.TrimRight(base, "/")
		if base == "" {
			return "/"
		}
	}
	return base
}
