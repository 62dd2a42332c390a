package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every runtime option for the admin server, decoded from
// ADMIN_* environment variables.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	BasePath string `envconfig:"BASE_PATH" default:"/admin"`

	// APIBaseURL points at the storefront backend REST API.
	APIBaseURL string `envconfig:"API_BASE_URL" required:"true"`
	// APITimeout bounds every backend call issued by the admin UI.
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	SessionHashKey  string        `envconfig:"SESSION_HASH_KEY" required:"true"`
	SessionBlockKey string        `envconfig:"SESSION_BLOCK_KEY"`
	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"168h"`
	CookieSecure    bool          `envconfig:"COOKIE_SECURE" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LoginRateLimit caps login attempts per client IP per minute.
	LoginRateLimit int `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
}

// Load decodes the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("ADMIN", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: API base URL is required")
	}
	if _, err := c.HashKey(); err != nil {
		return err
	}
	if _, err := c.BlockKey(); err != nil {
		return err
	}
	return nil
}

// HashKey decodes the session signing key.
func (c Config) HashKey() ([]byte, error) {
	key, err := decodeKey(c.SessionHashKey)
	if err != nil {
		return nil, fmt.Errorf("config: session hash key: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("config: session hash key is required")
	}
	return key, nil
}

// BlockKey decodes the optional session encryption key. Nil disables
// encryption (cookies stay signed either way).
func (c Config) BlockKey() ([]byte, error) {
	if strings.TrimSpace(c.SessionBlockKey) == "" {
		return nil, nil
	}
	key, err := decodeKey(c.SessionBlockKey)
	if err != nil {
		return nil, fmt.Errorf("config: session block key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, errors.New("config: session block key must decode to 16, 24 or 32 bytes")
	}
}

// decodeKey accepts either base64 or a raw literal so local setups can use
// plain strings.
func decodeKey(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return decoded, nil
	}
	return []byte(trimmed), nil
}
