package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotConfigured is returned when no identity provider base URL is set.
var ErrNotConfigured = errors.New("auth: base URL is not set")

// Validator checks bearer JWTs against the JWKS served by an identity provider. The key
// set is fetched once and refreshed in the background by keyfunc.
type Validator struct {
	baseURL string
	methods []string

	mu      sync.Mutex
	keyfunc jwt.Keyfunc
}

// NewValidator returns a Validator for the provider at baseURL (which serves
// /.well-known/jwks.json). An empty baseURL yields a Validator that rejects every token.
func NewValidator(baseURL string) *Validator {
	return &Validator{baseURL: strings.TrimRight(baseURL, "/"), methods: []string{"EdDSA", "RS256", "ES256"}}
}

// NewValidatorWithKeyfunc returns a Validator using a fixed key lookup. Tests use it with a local key.
func NewValidatorWithKeyfunc(issuer string, kf jwt.Keyfunc, methods ...string) *Validator {
	v := NewValidator(issuer)
	v.keyfunc = kf
	if len(methods) > 0 {
		v.methods = methods
	}
	return v
}

// Configured reports whether tokens can be validated at all.
func (v *Validator) Configured() bool {
	return v != nil && v.baseURL != ""
}

func (v *Validator) lookup() (jwt.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.keyfunc != nil {
		return v.keyfunc, nil
	}
	jwks, err := keyfunc.NewDefault([]string{v.baseURL + "/.well-known/jwks.json"})
	if err != nil {
		return nil, fmt.Errorf("auth: loading JWKS: %w", err)
	}
	v.keyfunc = jwks.Keyfunc
	return v.keyfunc, nil
}

// Validate parses tokenString, checks its signature, issuer and expiry, and returns the claims.
func (v *Validator) Validate(tokenString string) (jwt.MapClaims, error) {
	if !v.Configured() {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid base URL: %w", err)
	}
	expectedIssuer := u.Scheme + "://" + u.Host

	kf, err := v.lookup()
	if err != nil {
		return nil, err
	}
	token, err := jwt.Parse(tokenString, kf,
		jwt.WithIssuer(expectedIssuer),
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	return claims, nil
}

// FirstNameFromClaims returns the first word of the "name" claim, or a fallback.
func FirstNameFromClaims(claims jwt.MapClaims) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "Player"
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
