package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/auth"
	custommw "github.com/trendora/storefront-admin/internal/admin/httpserver/middleware"
	"github.com/trendora/storefront-admin/internal/admin/observability"
	adminorders "github.com/trendora/storefront-admin/internal/admin/orders"
	appsession "github.com/trendora/storefront-admin/internal/admin/session"
	"github.com/trendora/storefront-admin/internal/admin/templates"
	authtpl "github.com/trendora/storefront-admin/internal/admin/templates/auth"
)

type authHandlers struct {
	svc        auth.Service
	tpl        *templates.Engine
	workspaces *adminorders.Workspaces
	basePath   string
	loginPath  string
}

func newAuthHandlers(svc auth.Service, tpl *templates.Engine, workspaces *adminorders.Workspaces, basePath, loginPath string) *authHandlers {
	if svc == nil {
		panic("httpserver: auth service is required")
	}
	return &authHandlers{
		svc:        svc,
		tpl:        tpl,
		workspaces: workspaces,
		basePath:   basePath,
		loginPath:  loginPath,
	}
}

// LoginForm shows the sign-in screen. Already signed-in operators are sent
// straight to their destination.
func (h *authHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, h.redirectTarget(r.URL.Query().Get("next")), http.StatusFound)
		return
	}

	h.renderLoginPage(w, r, authtpl.LoginPageData{
		Next: h.normalizeNext(r.URL.Query().Get("next")),
	}, http.StatusOK)
}

// LoginSubmit exchanges the credentials for a backend token and binds it to
// the session.
func (h *authHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginPage(w, r, authtpl.LoginPageData{
			Error: "Could not read the form. Please try again.",
		}, http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := h.normalizeNext(r.PostFormValue("next"))

	if email == "" || password == "" {
		h.renderLoginPage(w, r, authtpl.LoginPageData{
			Email: email,
			Next:  next,
			Error: "Email and password are required.",
		}, http.StatusBadRequest)
		return
	}

	creds, err := h.svc.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidLogin) {
			h.renderLoginPage(w, r, authtpl.LoginPageData{
				Email: email,
				Next:  next,
				Error: "Invalid email or password.",
			}, http.StatusUnauthorized)
			return
		}
		observability.FromContext(r.Context()).Warn("admin login", zap.Error(err))
		h.renderLoginPage(w, r, authtpl.LoginPageData{
			Email: email,
			Next:  next,
			Error: "Could not sign in right now. Please try again shortly.",
		}, http.StatusBadGateway)
		return
	}

	if sess, ok := custommw.SessionFromContext(r.Context()); ok && sess != nil {
		sess.SetLogin(appsession.Admin{
			ID:       creds.AdminID,
			Email:    firstNonEmpty(creds.Email, email),
			Username: creds.Username,
		}, creds.Token, creds.IssuedAt)
	}

	target := h.redirectTarget(next)
	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Logout clears the session and drops its order workspace.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := custommw.SignOut(r.Context()); sessionID != "" && h.workspaces != nil {
		h.workspaces.Drop(sessionID)
	}

	if custommw.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", h.loginPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.loginPath, http.StatusSeeOther)
}

func (h *authHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, data authtpl.LoginPageData, status int) {
	data.LoginPath = h.loginPath
	data.BasePath = h.basePath
	data.CSRFToken = custommw.CSRFTokenFromContext(r.Context())

	component, err := h.tpl.Page(templates.PageLogin, templates.Shell{
		Title:    "Sign in",
		BasePath: h.basePath,
		Data:     data,
	})
	if err != nil {
		observability.FromContext(r.Context()).Error("render login", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templ.Handler(component).ServeHTTP(w, r)
}

func (h *authHandlers) isAuthenticated(r *http.Request) bool {
	sess, ok := custommw.SessionFromContext(r.Context())
	return ok && sess != nil && sess.LoggedIn()
}

func (h *authHandlers) redirectTarget(raw string) string {
	if next := h.normalizeNext(raw); next != "" {
		return next
	}
	if strings.TrimSpace(h.basePath) == "" {
		return "/"
	}
	return h.basePath
}

// normalizeNext accepts only same-site paths under the admin base so the
// next parameter cannot be abused as an open redirect.
func (h *authHandlers) normalizeNext(raw string) string {
	sanitized := sanitizeNextTarget(h.basePath, raw)
	if sanitized == "" {
		return ""
	}
	if h.loginPath != "" && samePath(pathOnly(sanitized), h.loginPath) {
		return ""
	}
	return sanitized
}

func sanitizeNextTarget(basePath, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return ""
	}

	pathValue := parsed.Path
	if pathValue == "" {
		pathValue = "/"
	}

	unescaped, err := url.PathUnescape(pathValue)
	if err != nil {
		return ""
	}
	if strings.Contains(unescaped, "\\") {
		return ""
	}

	cleaned := path.Clean(unescaped)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if strings.HasPrefix(cleaned, "//") {
		return ""
	}

	base := normalizeBasePath(basePath)
	if base != "/" && !hasSafePrefix(cleaned, base) {
		return ""
	}

	target := cleaned
	if parsed.RawQuery != "" {
		target += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		target += "#" + parsed.Fragment
	}
	return target
}

func hasSafePrefix(pathValue, base string) bool {
	if base == "/" {
		return strings.HasPrefix(pathValue, "/")
	}
	if !strings.HasPrefix(pathValue, base) {
		return false
	}
	if len(pathValue) == len(base) {
		return true
	}
	return pathValue[len(base)] == '/'
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	trim := func(p string) string {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		for len(p) > 1 && strings.HasSuffix(p, "/") {
			p = strings.TrimSuffix(p, "/")
		}
		return p
	}
	return trim(a) == trim(b)
}

func pathOnly(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Path
}
