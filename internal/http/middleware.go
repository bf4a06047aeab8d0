package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/service"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the authenticated identity placed by the
// session guard. The second return is false on unguarded routes.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// SessionGuard authenticates a request before the handler runs. The access
// token comes from the Authorization bearer header or the access_token
// cookie; the raw fingerprint only ever comes from the Secure-Fgp cookie.
// Both must be present and pair up, otherwise the request gets the single
// 401 shape regardless of which piece was wrong.
func SessionGuard(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(AccessTokenCookie); err == nil {
					token = c.Value
				}
			}

			var fingerprint string
			if c, err := r.Cookie(FingerprintCookie); err == nil {
				fingerprint = c.Value
			}

			id, err := sessions.VerifyAccess(r.Context(), token, fingerprint)
			if err != nil {
				errUnauthorized.WriteError(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
