package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/pkg/cryptox"
	"github.com/meishilabs/meishi/pkg/slogx"
	"github.com/meishilabs/meishi/pkg/tokenx"
)

// ErrUnauthorized is the single outcome for every failed verification:
// bad signature, expired token, malformed token, or fingerprint mismatch.
// Collapsing them stops a response from telling an attacker which check
// they got past.
var ErrUnauthorized = errors.New("unauthorized")

// SessionService owns the credential lifecycle: issuing fingerprint-bound
// session bundles, verifying access tokens on protected requests, and
// rotating bundles on refresh.
//
// It is entirely stateless. Tokens are self-contained, so any number of
// calls may run concurrently with no coordination; the only shared data is
// the two codecs' secrets, loaded once at startup and immutable after.
type SessionService struct {
	Access  *tokenx.Codec // signs/verifies access tokens
	Refresh *tokenx.Codec // signs/verifies refresh tokens (distinct secret)

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueSession mints a fresh credential bundle for an already-validated
// identity: a new fingerprint, an access token bound to the fingerprint's
// hash, and an unbound refresh token. Called after signup and login, and
// internally on refresh; the bundle shape is identical on every path.
//
// The only failure modes are crypto-level (random source, signing), which
// are configuration problems rather than user errors.
func (s *SessionService) IssueSession(ctx context.Context, id domain.Identity) (domain.SessionBundle, error) {
	now := time.Now().UTC()

	// 1. Fresh fingerprint; supersedes whatever the client held before
	fp, err := cryptox.GenerateFingerprint()
	if err != nil {
		return domain.SessionBundle{}, fmt.Errorf("issue session: %w", err)
	}

	// 2. Access token carries the fingerprint hash, never the raw value
	accessToken, err := s.Access.Sign(
		tokenx.NewClaims(id.SubjectID, id.Username, fp.Hash, s.AccessTTL, now),
	)
	if err != nil {
		return domain.SessionBundle{}, fmt.Errorf("sign access token: %w", err)
	}

	// 3. Refresh token is signed with its own secret and no fingerprint
	refreshToken, err := s.Refresh.Sign(
		tokenx.NewClaims(id.SubjectID, id.Username, "", s.RefreshTTL, now),
	)
	if err != nil {
		return domain.SessionBundle{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.SessionBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Fingerprint:  fp.Raw,
	}, nil
}

// VerifyAccess validates an access token against the raw fingerprint the
// client presented through its separate channel. Possession of the token
// alone is not enough: the presented fingerprint must hash to the value
// embedded in the claims, which defeats replay of a token exfiltrated
// without its paired cookie.
func (s *SessionService) VerifyAccess(ctx context.Context, token, fingerprintRaw string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Access.Verify(token)
	if err != nil {
		l.Debug("access token rejected", "err", err)
		return domain.Identity{}, ErrUnauthorized
	}

	// An access token without a binding never verifies; a refresh token
	// presented here fails the same way.
	if claims.FingerprintHash == "" || fingerprintRaw == "" {
		return domain.Identity{}, ErrUnauthorized
	}

	expected := cryptox.HashFingerprint(fingerprintRaw)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(claims.FingerprintHash)) != 1 {
		l.Debug("fingerprint mismatch", "sub", claims.Subject)
		return domain.Identity{}, ErrUnauthorized
	}

	return domain.Identity{
		SubjectID: claims.Subject,
		Username:  claims.Username,
	}, nil
}

// RefreshSession exchanges a valid, unexpired refresh token for an
// entirely new bundle, rotating access token, refresh token, and
// fingerprint in one step.
//
// Rotation supersedes the old fingerprint but does not cryptographically
// revoke the old tokens; with no server-side revocation list they stay
// valid until their own expiry. That statelessness trade-off is deliberate
// (horizontal scalability over revocability). Once the refresh token's
// expiry passes, the lineage is dead and the caller must log in again.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (domain.SessionBundle, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Refresh.Verify(refreshToken)
	if err != nil {
		l.Debug("refresh token rejected", "err", err)
		return domain.SessionBundle{}, ErrUnauthorized
	}

	return s.IssueSession(ctx, domain.Identity{
		SubjectID: claims.Subject,
		Username:  claims.Username,
	})
}
