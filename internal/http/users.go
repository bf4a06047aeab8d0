package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/service"
	"github.com/meishilabs/meishi/internal/store"
	"github.com/meishilabs/meishi/pkg/httpx"
	"github.com/meishilabs/meishi/pkg/slogx"
)

// PublicProfileResponse is the unauthenticated view of a profile. No email,
// no account id; just what a visitor's page renders.
type PublicProfileResponse struct {
	Username string         `json:"username"`
	Profile  domain.Profile `json:"profile"`
}

// UsersHandler serves the /api/users endpoints.
type UsersHandler struct {
	Users *service.UserService
}

type checkUsernameRequest struct {
	Username string `json:"username"`
}

type checkUsernameResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// HandleCheckUsername godoc
//
//	@Summary		Check username availability
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		checkUsernameRequest	true	"username"
//	@Success		200		{object}	checkUsernameResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/users/check-username [post].
func (h *UsersHandler) HandleCheckUsername(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req checkUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidBody.WriteError(w)
		return
	}

	available, reason, err := h.Users.CheckUsername(ctx, req.Username)
	if err != nil {
		log.Error("check username failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkUsernameResponse{Available: available, Reason: reason})
}

// HandleGetProfile godoc
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/users/profile [get].
func (h *UsersHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := IdentityFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	u, err := h.Users.GetProfile(ctx, id.SubjectID)
	if err != nil {
		// A valid token for a since-deleted account lands here.
		if errors.Is(err, store.ErrNotFound) {
			errUnauthorized.WriteError(w)
			return
		}
		log.Error("get profile failed", "err", err, "user_id", id.SubjectID)
		errServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

type updateProfileRequest struct {
	Title   *string        `json:"title"`
	Bio     *string        `json:"bio"`
	Picture *string        `json:"picture"`
	Links   *[]domain.Link `json:"links"`
}

// HandleUpdateProfile godoc
//
//	@Summary		Patch the authenticated user's profile
//	@Description	Absent fields are left untouched; a links array replaces the stored list wholesale, order preserved.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		updateProfileRequest	true	"partial profile"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/users/profile [patch].
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := IdentityFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errInvalidBody.WriteError(w)
		return
	}

	u, err := h.Users.UpdateProfile(ctx, id.SubjectID, service.ProfileUpdate{
		Title:   req.Title,
		Bio:     req.Bio,
		Picture: req.Picture,
		Links:   req.Links,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			validationError(validationMessage(err)).WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			errUnauthorized.WriteError(w)
		default:
			log.Error("update profile failed", "err", err, "user_id", id.SubjectID)
			errServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(u))
}

// HandlePublicProfile godoc
//
//	@Summary		Get a public profile by username
//	@Tags			Users
//	@Produce		json
//	@Param			username	path		string	true	"profile username"
//	@Success		200			{object}	PublicProfileResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/api/users/{username} [get].
func (h *UsersHandler) HandlePublicProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PathValue("username")
	u, err := h.Users.PublicProfile(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errNotFound.WriteError(w)
			return
		}
		log.Error("public profile failed", "err", err, "username", username)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PublicProfileResponse{
		Username: u.Username,
		Profile:  u.Profile,
	})
}
