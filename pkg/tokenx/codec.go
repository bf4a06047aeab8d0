// Package tokenx signs and verifies the compact, time-bounded claim sets
// that make up the session credential pair. Signing is symmetric (HS256);
// access and refresh tokens are minted by two codecs holding different
// secrets, so one class of token can never verify as the other.
package tokenx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret = errors.New("tokenx: empty signing secret")

	ErrMalformed  = errors.New("tokenx: malformed token")
	ErrInvalidSig = errors.New("tokenx: invalid signature")
	ErrExpired    = errors.New("tokenx: token expired")

	ErrInvalidClaims = errors.New("tokenx: invalid claims")
)

// Codec signs and verifies tokens with a single immutable HMAC secret.
// Construct one per token class (access, refresh) at startup and treat it
// as read-only for the process lifetime; it is safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec returns a codec for the given secret. An empty secret is a
// configuration error and must abort startup, never be papered over.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	// Copy so a caller reusing its buffer can't mutate the codec.
	s := make([]byte, len(secret))
	copy(s, secret)

	return &Codec{secret: s}, nil
}

// Sign produces the compact serialized form of claims under this codec's
// secret.
func (c *Codec) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// Failures map to the package sentinel errors; callers at the transport
// boundary are expected to collapse all of them into a single unauthorized
// outcome so the response never leaks which check failed.
func (c *Codec) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, ErrInvalidClaims
		}
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaims
	}

	return claims, nil
}
