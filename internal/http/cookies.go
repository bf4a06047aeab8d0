package http

import (
	"net/http"

	"github.com/meishilabs/meishi/internal/domain"
)

// Cookie names the browser client depends on. Secure-Fgp carries the raw
// fingerprint and is the only place the raw value ever travels; the tokens
// embed just its hash.
const (
	FingerprintCookie  = "Secure-Fgp"
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

const (
	accessCookieMaxAge  = 3600
	refreshCookieMaxAge = 7 * 24 * 3600
)

// CookieWriter stamps session cookies with the deployment's domain and
// security settings. Secure is off only for local development over plain
// HTTP; everything else about the cookies is fixed.
type CookieWriter struct {
	Domain string
	Secure bool
}

// WriteSession sets the three session cookies from a freshly issued bundle.
// All three are HttpOnly and SameSite=Strict so scripts can never read the
// fingerprint and cross-site requests never carry the tokens.
func (c CookieWriter) WriteSession(w http.ResponseWriter, bundle domain.SessionBundle) {
	c.set(w, FingerprintCookie, bundle.Fingerprint, accessCookieMaxAge)
	c.set(w, AccessTokenCookie, bundle.AccessToken, accessCookieMaxAge)
	c.set(w, RefreshTokenCookie, bundle.RefreshToken, refreshCookieMaxAge)
}

// ClearSession expires all three session cookies. Tokens already issued
// remain valid until expiry; logout only removes them from the browser.
func (c CookieWriter) ClearSession(w http.ResponseWriter) {
	c.set(w, FingerprintCookie, "", -1)
	c.set(w, AccessTokenCookie, "", -1)
	c.set(w, RefreshTokenCookie, "", -1)
}

func (c CookieWriter) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
