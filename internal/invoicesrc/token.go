package invoicesrc

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const bearerPrefix = "Bearer "

// Signer mints the short-lived HS256 bearer token attached to every
// backend request. A Signer with an empty secret signs nothing.
type Signer struct {
	Secret   []byte
	Issuer   string
	Validity time.Duration

	now func() time.Time
}

// NewSigner builds a signer; validity defaults to one minute.
func NewSigner(secret, issuer string, validity time.Duration) *Signer {
	if validity <= 0 {
		validity = time.Minute
	}
	return &Signer{Secret: []byte(secret), Issuer: issuer, Validity: validity, now: time.Now}
}

// Enabled reports whether requests should carry a token.
func (s *Signer) Enabled() bool {
	return s != nil && len(s.Secret) > 0
}

// Token returns a freshly signed token with a unique id.
func (s *Signer) Token() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.Validity)),
		ID:        uuid.NewString(),
	})

	tokenString, err := token.SignedString(s.Secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Authorization returns the Authorization header value, or "" when the
// signer is disabled.
func (s *Signer) Authorization() (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	t, err := s.Token()
	if err != nil {
		return "", err
	}
	return bearerPrefix + t, nil
}

// VerifyAuthorization checks a bearer header produced by a signer sharing
// secret and returns its claims. Backends use it to authenticate callers.
func VerifyAuthorization(header string, secret []byte) (*jwt.RegisteredClaims, error) {
	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
