package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/service"
	"github.com/meishilabs/meishi/internal/store/drivers/sqlite"
	"github.com/meishilabs/meishi/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *service.UserService {
	t.Helper()

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &service.UserService{Store: st}
}

func signupAlice(t *testing.T, svc *service.UserService) domain.User {
	t.Helper()

	u, err := svc.Signup(context.Background(), service.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	u := signupAlice(t, svc)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice", u.Username)
	require.NotEqual(t, "correct-horse", u.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Signup(ctx, service.SignupRequest{
			Username: "Alice", // case-insensitive collision
			Email:    "other@example.com",
			Password: "correct-horse",
		})
		require.ErrorIs(t, err, service.ErrUsernameTaken)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := []struct {
			name string
			req  service.SignupRequest
		}{
			{"short username", service.SignupRequest{Username: "ab", Email: "a@b.c", Password: "longenough"}},
			{"invalid characters", service.SignupRequest{Username: "has spaces", Email: "a@b.c", Password: "longenough"}},
			{"bad email", service.SignupRequest{Username: "valid", Email: "nope", Password: "longenough"}},
			{"short password", service.SignupRequest{Username: "valid", Email: "a@b.c", Password: "short"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Signup(ctx, tc.req)
				require.ErrorIs(t, err, service.ErrValidation)
			})
		}
	})
}

func TestUserService_ValidateCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	signupAlice(t, svc)

	u, err := svc.ValidateCredentials(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = svc.ValidateCredentials(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// Unknown user fails identically to wrong password.
	_, err = svc.ValidateCredentials(ctx, "nobody", "correct-horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestUserService_CheckUsername(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	signupAlice(t, svc)

	available, reason, err := svc.CheckUsername(ctx, "newcomer")
	require.NoError(t, err)
	require.True(t, available)
	require.Empty(t, reason)

	available, reason, err = svc.CheckUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, available)
	require.Equal(t, "username already taken", reason)

	available, reason, err = svc.CheckUsername(ctx, "x")
	require.NoError(t, err)
	require.False(t, available)
	require.NotEmpty(t, reason)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	u := signupAlice(t, svc)

	title := "Alice's Links"
	links := []domain.Link{
		{ID: uuid.NewString(), Title: "Blog", URL: "https://blog.example.com"},
		{ID: uuid.NewString(), Title: "Shop", URL: "https://shop.example.com"},
	}

	updated, err := svc.UpdateProfile(ctx, u.ID, service.ProfileUpdate{
		Title: &title,
		Links: &links,
	})
	require.NoError(t, err)
	require.Equal(t, title, updated.Profile.Title)
	require.Equal(t, links, updated.Profile.Links)

	t.Run("partial patch leaves other fields", func(t *testing.T) {
		bio := "building things"
		updated, err := svc.UpdateProfile(ctx, u.ID, service.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		require.Equal(t, title, updated.Profile.Title)
		require.Equal(t, bio, updated.Profile.Bio)
		require.Equal(t, links, updated.Profile.Links)
	})

	t.Run("public profile reflects the update", func(t *testing.T) {
		pub, err := svc.PublicProfile(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, title, pub.Profile.Title)
		require.Equal(t, links, pub.Profile.Links)
	})

	t.Run("rejects invalid patches", func(t *testing.T) {
		long := make([]byte, 100)
		for i := range long {
			long[i] = 'x'
		}
		tooLong := string(long)
		badLinks := []domain.Link{{ID: "not-a-uuid", Title: "t", URL: "https://example.com"}}
		plainURL := []domain.Link{{ID: uuid.NewString(), Title: "t", URL: "ftp://example.com"}}

		cases := []struct {
			name  string
			patch service.ProfileUpdate
		}{
			{"title too long", service.ProfileUpdate{Title: &tooLong}},
			{"bio too long", service.ProfileUpdate{Bio: &tooLong}},
			{"link id not uuid", service.ProfileUpdate{Links: &badLinks}},
			{"link url not http", service.ProfileUpdate{Links: &plainURL}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.UpdateProfile(ctx, u.ID, tc.patch)
				require.ErrorIs(t, err, service.ErrValidation)
			})
		}
	})
}
