package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func testValidator() *Validator {
	return NewValidatorWithKeyfunc("https://auth.example.com/api/auth", func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	}, "HS256")
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return s
}

func TestValidateAcceptsGoodToken(t *testing.T) {
	tok := sign(t, jwt.MapClaims{
		"iss":  "https://auth.example.com",
		"sub":  "user-1",
		"name": "Ada Lovelace",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	claims, err := testValidator().Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if UserIDFromClaims(claims) != "user-1" {
		t.Errorf("user id = %q", UserIDFromClaims(claims))
	}
	if FirstNameFromClaims(claims) != "Ada" {
		t.Errorf("first name = %q", FirstNameFromClaims(claims))
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"wrong issuer", jwt.MapClaims{"iss": "https://evil.example.com", "sub": "u", "exp": time.Now().Add(time.Hour).Unix()}},
		{"expired", jwt.MapClaims{"iss": "https://auth.example.com", "sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}},
		{"no expiry", jwt.MapClaims{"iss": "https://auth.example.com", "sub": "u"}},
	}
	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Validate(sign(t, tt.claims)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateNotConfigured(t *testing.T) {
	v := NewValidator("")
	if v.Configured() {
		t.Fatal("empty base URL reported as configured")
	}
	if _, err := v.Validate("x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestClaimsFallbacks(t *testing.T) {
	if got := FirstNameFromClaims(jwt.MapClaims{"name": "   "}); got != "Player" {
		t.Errorf("blank name fallback = %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{"id": "abc"}); got != "abc" {
		t.Errorf("id claim = %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{}); got != "" {
		t.Errorf("missing id = %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc.def"); !ok || tok != "abc.def" {
		t.Errorf("got %q, %v", tok, ok)
	}
	for _, h := range []string{"", "Basic abc", "Bearer  "} {
		if _, ok := BearerToken(h); ok {
			t.Errorf("accepted %q", h)
		}
	}
}
