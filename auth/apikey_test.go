package auth

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/735726032/openai-SenseVoice/errors"
)

func TestAuthenticate_Plaintext(t *testing.T) {
	a, err := NewAuthenticator(Config{APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	tests := []struct {
		name   string
		scheme string
		token  string
		ok     bool
	}{
		{"valid", "Bearer", "secret", true},
		{"wrong token", "Bearer", "nope", false},
		{"wrong scheme", "Basic", "secret", false},
		{"lowercase scheme", "bearer", "secret", false},
		{"empty token", "Bearer", "", false},
		{"prefix of key", "Bearer", "secre", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Authenticate(tc.scheme, tc.token)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if got != tc.token {
					t.Errorf("expected token %q returned, got %q", tc.token, got)
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", appErr.HTTPStatus)
			}
			if appErr.Type != "invalid_request_error" || appErr.Param != "Authorization" {
				t.Errorf("unexpected error payload %+v", appErr)
			}
			if appErr.Headers["WWW-Authenticate"] != "Bearer" {
				t.Errorf("expected Bearer challenge header, got %v", appErr.Headers)
			}
		})
	}
}

func TestAuthenticate_Hashed(t *testing.T) {
	hash, err := HashAPIKey("hashed-secret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}
	a, err := NewAuthenticator(Config{APIKey: "ignored", APIKeyHash: hash})
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	if _, err := a.Authenticate("Bearer", "hashed-secret"); err != nil {
		t.Errorf("expected hashed key to match, got %v", err)
	}
	if _, err := a.Authenticate("Bearer", "ignored"); err == nil {
		t.Error("hash should take precedence over plaintext key")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Error("expected error when no key is configured")
	}
	if err := (&Config{APIKeyHash: "not-a-hash"}).Validate(); err == nil {
		t.Error("expected error for malformed hash")
	}
	if err := (&Config{APIKey: "k"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHashAPIKey_Empty(t *testing.T) {
	if _, err := HashAPIKey("", 0); err == nil {
		t.Error("expected error for empty key")
	}
}
