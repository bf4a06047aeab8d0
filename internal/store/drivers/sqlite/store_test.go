package sqlite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/store"
	"github.com/meishilabs/meishi/internal/store/drivers/sqlite"
	"github.com/meishilabs/meishi/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestUsersRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Profile:      domain.Profile{Title: "Alice", Bio: "hello"},
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.Profile.Title)
	require.False(t, got.CreatedAt.IsZero())

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
}

func TestUsersRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Users().UpdateProfile(ctx, "missing", domain.Profile{})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRepo_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	dup := domain.User{ID: idx.New().String(), Username: "bob", Email: "other@example.com", PasswordHash: "hash"}
	err := st.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	taken, err := st.Users().UsernameExists(ctx, "bob")
	require.NoError(t, err)
	require.True(t, taken)
}

func TestLinksRepo_ReplacePreservesOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Username: "carol", Email: "carol@example.com", PasswordHash: "hash"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	first := []domain.Link{
		{ID: uuid.NewString(), Title: "Blog", URL: "https://blog.example.com"},
		{ID: uuid.NewString(), Title: "Shop", URL: "https://shop.example.com"},
	}
	require.NoError(t, st.Links().Replace(ctx, u.ID, first))

	got, err := st.Links().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, first, got)

	// Reorder and shrink; the stored list must match wholesale.
	second := []domain.Link{first[1]}
	require.NoError(t, st.Links().Replace(ctx, u.ID, second))

	got, err = st.Links().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestDeleteUserCascadesToLinks(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Username: "dave", Email: "dave@example.com", PasswordHash: "hash"}
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Links().Replace(ctx, u.ID, []domain.Link{
		{ID: uuid.NewString(), Title: "Site", URL: "https://example.com"},
	}))

	require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

	links, err := st.Links().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Username: "erin", Email: "erin@example.com", PasswordHash: "hash"}

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return store.ErrAlreadyExists // force rollback
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
