package auth

import (
	"context"
	"crypto/subtle"
	"time"
)

// StaticAccount is one fixture login accepted by StaticService.
type StaticAccount struct {
	Email    string
	Password string
	AdminID  string
	Username string
}

// StaticService accepts a fixed set of accounts. It stands in for the
// backend login endpoint in local development and handler tests.
type StaticService struct {
	accounts []StaticAccount
	now      func() time.Time
}

// NewStaticService returns a StaticService with a default operator account.
func NewStaticService(accounts ...StaticAccount) *StaticService {
	if len(accounts) == 0 {
		accounts = []StaticAccount{
			{
				Email:    "ops@trendora.com.bd",
				Password: "trendora-dev",
				AdminID:  "admin-1",
				Username: "ops",
			},
		}
	}
	return &StaticService{accounts: accounts, now: time.Now}
}

// Login matches the credentials against the fixture accounts.
func (s *StaticService) Login(_ context.Context, email, password string) (Credentials, error) {
	for _, account := range s.accounts {
		emailOK := subtle.ConstantTimeCompare([]byte(account.Email), []byte(email)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) == 1
		if emailOK && passOK {
			return Credentials{
				Token:    "static-token-" + account.AdminID,
				AdminID:  account.AdminID,
				Email:    account.Email,
				Username: account.Username,
				IssuedAt: s.now().UTC(),
			}, nil
		}
	}
	return Credentials{}, ErrInvalidLogin
}
