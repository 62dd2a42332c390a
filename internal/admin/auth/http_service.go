package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/trendora/storefront-admin/internal/admin/api"
)

// HTTPService implements Service against the backend's /admins/login endpoint.
type HTTPService struct {
	client *api.Client
	now    func() time.Time
}

// NewHTTPService constructs an HTTPService on top of the shared API client.
func NewHTTPService(client *api.Client) *HTTPService {
	return &HTTPService{client: client, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Login exchanges credentials for a bearer token.
func (s *HTTPService) Login(ctx context.Context, email, password string) (Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Credentials{}, ErrInvalidLogin
	}

	var resp loginResponse
	err := s.client.Post(ctx, "", "/admins/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusUnauthorized, http.StatusBadRequest, http.StatusNotFound:
				return Credentials{}, ErrInvalidLogin
			}
		}
		return Credentials{}, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return Credentials{}, ErrInvalidLogin
	}

	return Credentials{
		Token:    resp.Token,
		AdminID:  resp.ID,
		Email:    resp.Email,
		Username: resp.Username,
		IssuedAt: s.now().UTC(),
	}, nil
}
