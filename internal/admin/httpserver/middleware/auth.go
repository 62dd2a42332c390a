package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/trendora/storefront-admin/internal/admin/observability"
)

type authContextKey string

const userContextKey authContextKey = "auth.user"

// User represents the signed-in back-office admin for the current request.
type User struct {
	AdminID  string
	Email    string
	Username string
	Token    string
}

// Authenticator resolves the session-held backend token into a User. The
// default implementation trusts the session contents: the backend answers
// 401 on a stale token and that response, not a local clock, logs the
// admin out.
type Authenticator interface {
	Authenticate(r *http.Request, token string) (*User, error)
}

// ErrUnauthorized is returned when authentication fails.
var ErrUnauthorized = errors.New("unauthorized")

// SessionAuthenticator builds the User from the session profile saved at
// login time.
func SessionAuthenticator() Authenticator {
	return &sessionAuthenticator{}
}

type sessionAuthenticator struct{}

func (sessionAuthenticator) Authenticate(r *http.Request, token string) (*User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}
	sess, ok := SessionFromContext(r.Context())
	if !ok || sess.Admin() == nil {
		return nil, ErrUnauthorized
	}
	admin := sess.Admin()
	return &User{
		AdminID:  admin.ID,
		Email:    admin.Email,
		Username: admin.Username,
		Token:    token,
	}, nil
}

// Auth guards admin routes: requests without a signed-in session are sent to
// the login page, with HX-Redirect for htmx-initiated requests so the whole
// page navigates instead of swapping a fragment.
func Auth(authenticator Authenticator, loginPath string) func(http.Handler) http.Handler {
	if authenticator == nil {
		authenticator = SessionAuthenticator()
	}
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := observability.FromContext(r.Context())

			var token string
			if sess, ok := SessionFromContext(r.Context()); ok {
				token = sess.Token()
			}
			if strings.TrimSpace(token) == "" {
				handleUnauthorized(w, r, loginPath)
				return
			}

			user, err := authenticator.Authenticate(r, token)
			if err != nil || user == nil {
				if err == nil {
					err = ErrUnauthorized
				}
				logger.Info("auth rejected", zap.Error(err))
				if sess, ok := SessionFromContext(r.Context()); ok {
					sess.ClearLogin()
				}
				handleUnauthorized(w, r, loginPath)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// ContextWithUser attaches a user directly, bypassing authentication. Test
// helpers and background renders use this.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// SignOut clears the session login state and its order workspace association.
// Callers still redirect afterwards.
func SignOut(ctx context.Context) (sessionID string) {
	if sess, ok := SessionFromContext(ctx); ok {
		sessionID = sess.ID()
		sess.ClearLogin()
		sess.Destroy()
	}
	return sessionID
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath string) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", loginPath)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	redirectURL := loginPath
	if u, err := url.Parse(loginPath); err == nil && r.URL.Path != "" && r.URL.Path != loginPath {
		q := u.Query()
		q.Set("next", r.URL.Path)
		u.RawQuery = q.Encode()
		redirectURL = u.String()
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}
