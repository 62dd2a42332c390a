// Package ui holds the HTTP handlers for the admin pages and htmx fragments.
// Handlers are thin: they resolve the per-session order workspace, invoke the
// domain layer and render a template payload.
package ui

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/api"
	"github.com/trendora/storefront-admin/internal/admin/dashboard"
	custommw "github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/notify"
	"github.com/trendora/storefront-admin/internal/admin/observability"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	"github.com/trendora/storefront-admin/internal/admin/templates"
	tpldashboard "github.com/trendora/storefront-admin/internal/admin/templates/dashboard"
	"github.com/trendora/storefront-admin/internal/admin/templates/partials"
)

// Dependencies collects external services required by the UI handlers.
type Dependencies struct {
	Templates  *templates.Engine
	Workspaces *adminorders.Workspaces
	Dashboard  dashboard.Service
	BasePath   string
	LoginPath  string
}

// Handlers exposes HTTP handlers for admin UI pages and fragments.
type Handlers struct {
	tpl        *templates.Engine
	workspaces *adminorders.Workspaces
	dashboard  dashboard.Service
	basePath   string
	loginPath  string
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		tpl:        deps.Templates,
		workspaces: deps.Workspaces,
		dashboard:  deps.Dashboard,
		basePath:   deps.BasePath,
		loginPath:  deps.LoginPath,
	}
}

// shell assembles the page chrome for the current request.
func (h *Handlers) shell(r *http.Request, title string, data any) templates.Shell {
	ctx := r.Context()
	return templates.Shell{
		Title:     title,
		BasePath:  h.basePath,
		Menu:      partials.BuildMenu(ctx, h.basePath),
		AdminName: partials.AdminName(ctx),
		CSRFToken: custommw.CSRFTokenFromContext(ctx),
		Data:      data,
	}
}

// workspace returns the order workspace bound to the current session plus
// the backend token of the signed-in admin.
func (h *Handlers) workspace(r *http.Request) (*adminorders.Workspace, string, bool) {
	user, ok := custommw.UserFromContext(r.Context())
	if !ok || user == nil {
		return nil, "", false
	}
	sess, ok := custommw.SessionFromContext(r.Context())
	if !ok {
		return nil, "", false
	}
	return h.workspaces.Get(sess.ID()), user.Token, true
}

// signedOut ends the session and redirects to login when the backend
// rejected the bearer token. The backend's verdict on the token always wins
// over the local session lifetime. Returns true when the response has been
// written.
func (h *Handlers) signedOut(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	observability.FromContext(r.Context()).Info("backend rejected session token, signing out")
	if sessionID := custommw.SignOut(r.Context()); sessionID != "" && h.workspaces != nil {
		h.workspaces.Drop(sessionID)
	}
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", h.loginPath)
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
	return true
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, name string, shell templates.Shell) {
	component, err := h.tpl.Page(name, shell)
	if err != nil {
		observability.FromContext(r.Context()).Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	templ.Handler(component).ServeHTTP(w, r)
}

// renderFragment writes an htmx fragment. Any toasts collected during the
// request ride along on the HX-Trigger header, so they must be attached
// before the body is written.
func (h *Handlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any, toasts *notify.Collector) {
	component, err := h.tpl.Fragment(name, data)
	if err != nil {
		observability.FromContext(r.Context()).Error("render fragment", zap.String("fragment", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if toasts != nil {
		if trigger := toasts.HXTrigger(); trigger != "" {
			w.Header().Set("HX-Trigger", trigger)
		}
	}
	templ.Handler(component).ServeHTTP(w, r)
}

// Dashboard renders the overview landing page.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := custommw.UserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	overview, err := h.dashboard.Overview(r.Context(), user.Token)
	if err != nil {
		if h.signedOut(w, r, err) {
			return
		}
		observability.FromContext(r.Context()).Warn("dashboard overview", zap.Error(err))
		http.Error(w, "Could not load the dashboard. Please try again shortly.", http.StatusBadGateway)
		return
	}

	payload := tpldashboard.BuildPageData(h.basePath, overview)
	h.renderPage(w, r, templates.PageDashboard, h.shell(r, payload.Title, payload))
}
