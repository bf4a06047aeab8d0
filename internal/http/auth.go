package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/service"
	"github.com/meishilabs/meishi/pkg/httpx"
	"github.com/meishilabs/meishi/pkg/slogx"
)

// UserResponse is the account view returned by signup, login and the
// profile endpoints. The password hash never leaves the service.
type UserResponse struct {
	UID      string         `json:"uid"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Profile  domain.Profile `json:"profile"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{
		UID:      u.ID,
		Username: u.Username,
		Email:    u.Email,
		Profile:  u.Profile,
	}
}

// AuthHandler serves the /api/auth endpoints: account creation, login,
// token verification, refresh and logout. Every success path that touches
// credentials writes a full cookie set in one go.
type AuthHandler struct {
	Users    *service.UserService
	Sessions *service.SessionService
	Cookies  CookieWriter
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup godoc
//
//	@Summary		Register a new account
//	@Description	Creates a user with an empty profile, then issues a session (cookies: Secure-Fgp, access_token, refresh_token).
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		signupRequest	true	"username, email, password"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidBody.WriteError(w)
		return
	}

	u, err := h.Users.Signup(ctx, service.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			errUsernameTaken.WriteError(w)
		case errors.Is(err, service.ErrValidation):
			validationError(validationMessage(err)).WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	bundle, err := h.Sessions.IssueSession(ctx, domain.Identity{SubjectID: u.ID, Username: u.Username})
	if err != nil {
		log.Error("session issue failed after signup", "err", err, "user_id", u.ID)
		errServerError.WriteError(w)
		return
	}

	h.Cookies.WriteSession(w, bundle)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, userResponse(u))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin godoc
//
//	@Summary		Log in with username and password
//	@Description	Validates credentials and issues a fresh session bundle as cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		loginRequest	true	"username, password"
//	@Success		200		{object}	UserResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidBody.WriteError(w)
		return
	}

	u, err := h.Users.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			errInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	u, err = h.Users.GetProfile(ctx, u.ID)
	if err != nil {
		log.Error("profile load failed after login", "err", err, "user_id", u.ID)
		errServerError.WriteError(w)
		return
	}

	bundle, err := h.Sessions.IssueSession(ctx, domain.Identity{SubjectID: u.ID, Username: u.Username})
	if err != nil {
		log.Error("session issue failed after login", "err", err, "user_id", u.ID)
		errServerError.WriteError(w)
		return
	}

	h.Cookies.WriteSession(w, bundle)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandleCheckToken godoc
//
//	@Summary		Verify the current session
//	@Description	Runs behind the session guard; reaching the handler means the token and fingerprint paired up.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]bool
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/auth/checkToken [post].
func (h *AuthHandler) HandleCheckToken(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// HandleRefresh godoc
//
//	@Summary		Rotate the session
//	@Description	Exchanges the refresh_token cookie for a whole new bundle; all three cookies are replaced.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	ErrorResponse
//	@Router			/api/auth/token [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	c, err := r.Cookie(RefreshTokenCookie)
	if err != nil || c.Value == "" {
		errUnauthorized.WriteError(w)
		return
	}

	bundle, err := h.Sessions.RefreshSession(ctx, c.Value)
	if err != nil {
		errUnauthorized.WriteError(w)
		return
	}

	h.Cookies.WriteSession(w, bundle)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the session cookies. Issued tokens stay valid until expiry; there is no server-side revocation.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.ClearSession(w)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{})
}

// validationMessage strips the sentinel prefix so the client sees only the
// human part ("title too long" rather than "validation failed: ...").
func validationMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, service.ErrValidation.Error()+": "); ok {
		return cut
	}
	return msg
}
