package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/735726032/openai-SenseVoice/errors"
)

// SchemeBearer is the only accepted authorization scheme.
const SchemeBearer = "Bearer"

// Authenticator checks bearer credentials against the configured API key.
// It is immutable after construction and safe for concurrent use.
type Authenticator struct {
	key  []byte
	hash []byte
}

// NewAuthenticator builds an Authenticator from validated config.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKeyHash != "" {
		return &Authenticator{hash: []byte(cfg.APIKeyHash)}, nil
	}
	return &Authenticator{key: []byte(cfg.APIKey)}, nil
}

// Authenticate returns the token when scheme is exactly "Bearer" and the
// token matches the API key. Any mismatch yields a 401 AppError carrying a
// Bearer challenge.
func (a *Authenticator) Authenticate(scheme, token string) (string, error) {
	if scheme != SchemeBearer || token == "" || !a.matches(token) {
		return "", errors.Unauthorized("Incorrect API key")
	}
	return token, nil
}

func (a *Authenticator) matches(token string) bool {
	if a.hash != nil {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare(a.key, []byte(token)) == 1
}

// HashAPIKey returns a bcrypt hash suitable for auth.api_key_hash.
func HashAPIKey(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("api key must not be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}
