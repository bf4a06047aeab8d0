package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/store"
	"github.com/meishilabs/meishi/pkg/cryptox"
	"github.com/meishilabs/meishi/pkg/idx"
	"github.com/meishilabs/meishi/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already taken")
	ErrValidation    = errors.New("validation failed")
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	titleMaxLen    = 50
	bioMaxLen      = 80
	maxLinks       = 20
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// UserService handles accounts and profiles. It validates credentials for
// the session layer but never touches tokens itself; session issuance is
// SessionService's job.
type UserService struct {
	Store store.Store
}

// SignupRequest carries the fields the client submits at registration.
type SignupRequest struct {
	Username string
	Email    string
	Password string
}

// ProfileUpdate is a partial profile patch. Nil fields are left untouched;
// a non-nil Links slice replaces the stored list wholesale, order included.
type ProfileUpdate struct {
	Title   *string
	Bio     *string
	Picture *string
	Links   *[]domain.Link
}

// Signup creates a new account with an empty profile and returns it.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return domain.User{}, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	l.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// ValidateCredentials checks a username/password pair and returns the
// matching user. Unknown username and wrong password are indistinguishable
// to the caller.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// CheckUsername reports whether a username is valid and still available.
// The reason string is empty when available.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return false, strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "), nil
	}

	taken, err := s.Store.Users().UsernameExists(ctx, username)
	if err != nil {
		return false, "", fmt.Errorf("check username: %w", err)
	}
	if taken {
		return false, "username already taken", nil
	}
	return true, "", nil
}

// GetProfile returns a user with their profile and links populated.
func (s *UserService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	links, err := s.Store.Links().ListByUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("list links: %w", err)
	}
	u.Profile.Links = links
	return u, nil
}

// PublicProfile returns the public view of a profile looked up by username.
func (s *UserService) PublicProfile(ctx context.Context, username string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	links, err := s.Store.Links().ListByUser(ctx, u.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("list links: %w", err)
	}
	u.Profile.Links = links
	return u, nil
}

// UpdateProfile applies a partial patch to a user's profile and returns the
// updated view. Scalar fields and the link list are written in one
// transaction so a failed link replace never leaves a half-applied patch.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if err := validatePatch(patch); err != nil {
		return domain.User{}, err
	}

	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if patch.Title != nil {
		u.Profile.Title = *patch.Title
	}
	if patch.Bio != nil {
		u.Profile.Bio = *patch.Bio
	}
	if patch.Picture != nil {
		u.Profile.Picture = *patch.Picture
	}
	if patch.Links != nil {
		u.Profile.Links = *patch.Links
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateProfile(ctx, userID, u.Profile); err != nil {
			return err
		}
		if patch.Links != nil {
			return tx.Links().Replace(ctx, userID, *patch.Links)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}

	l.Info("profile updated", "user_id", userID, "links", len(u.Profile.Links))
	return u, nil
}

func validateUsername(username string) error {
	switch {
	case len(username) < usernameMinLen:
		return fmt.Errorf("%w: username too short", ErrValidation)
	case len(username) > usernameMaxLen:
		return fmt.Errorf("%w: username too long", ErrValidation)
	case !usernameRe.MatchString(username):
		return fmt.Errorf("%w: username has invalid characters", ErrValidation)
	}
	return nil
}

func validatePatch(patch ProfileUpdate) error {
	if patch.Title != nil && len(*patch.Title) > titleMaxLen {
		return fmt.Errorf("%w: title too long", ErrValidation)
	}
	if patch.Bio != nil && len(*patch.Bio) > bioMaxLen {
		return fmt.Errorf("%w: bio too long", ErrValidation)
	}
	if patch.Links == nil {
		return nil
	}
	links := *patch.Links
	if len(links) > maxLinks {
		return fmt.Errorf("%w: too many links", ErrValidation)
	}
	for _, link := range links {
		if _, err := uuid.Parse(link.ID); err != nil {
			return fmt.Errorf("%w: link id must be a UUID", ErrValidation)
		}
		if link.Title == "" || link.URL == "" {
			return fmt.Errorf("%w: link title and url are required", ErrValidation)
		}
		if !strings.HasPrefix(link.URL, "http://") && !strings.HasPrefix(link.URL, "https://") {
			return fmt.Errorf("%w: link url must be http(s)", ErrValidation)
		}
	}
	return nil
}
