package auth

import (
	"context"
	"errors"
	"time"
)

// Credentials holds the backend-issued admin identity and bearer token.
type Credentials struct {
	Token    string
	AdminID  string
	Email    string
	Username string
	IssuedAt time.Time
}

// ErrInvalidLogin is returned when the backend rejects the email/password pair.
var ErrInvalidLogin = errors.New("auth: invalid email or password")

// Service authenticates admin operators against the storefront backend.
type Service interface {
	// Login exchanges an email/password pair for a bearer token.
	Login(ctx context.Context, email, password string) (Credentials, error)
}
