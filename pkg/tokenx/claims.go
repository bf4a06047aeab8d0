package tokenx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. These are contractual for the deployed web client:
// cookie max-ages on the transport side are derived from the same values.
const (
	// DefaultAccessTokenTTL is the lifetime of an access token.
	DefaultAccessTokenTTL = time.Hour

	// DefaultRefreshTokenTTL is the lifetime of a refresh token.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the signed payload for both access and refresh tokens. Field
// names are part of the wire contract with the existing web client, so
// changes here must stay additive.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the authenticated user.
	Username string `json:"username,omitempty"`

	// FingerprintHash is the SHA-256 digest of the session fingerprint the
	// token is bound to. Present on access tokens only; refresh tokens are
	// not fingerprint-bound.
	FingerprintHash string `json:"userFingerPrint,omitempty"`
}

// NewClaims builds a minimally-correct claims set expiring at now+ttl.
// Pass an empty fingerprintHash for refresh tokens. Every claims set gets a
// random jti; iat/exp have one-second resolution, so without it two tokens
// minted in the same second for the same subject would serialize
// identically and rotation would be unobservable.
func NewClaims(subject, username, fingerprintHash string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:        username,
		FingerprintHash: fingerprintHash,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. There
// is no uniqueness registry; 20 random bytes make collisions a non-issue.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
