package store

import (
	"context"
	"errors"

	"github.com/meishilabs/meishi/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// possibly postgres later) implement this. It exposes sub-repositories to
// keep concerns tidy and testable.
//
// The session core never touches this: tokens are self-contained and the
// server holds no session registry. The store backs the user-lookup side
// of the house only.
type Store interface {
	Users() Users
	Links() Links

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back; otherwise it is committed. This is the
	// recommended way to handle multi-step writes (e.g., replacing a
	// profile's link list).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id, profile scalar fields included but
	// links excluded (see Links).
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during credential validation and for the
	// public profile page.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists reports whether a username is already taken.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile overwrites the profile scalar columns (title, bio,
	// picture) and bumps updated_at. Callers merge partial updates first.
	UpdateProfile(ctx context.Context, userID string, p domain.Profile) error

	// DeleteUser cascades to links (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Links interface {
	// ListByUser returns a user's links ordered by their display position.
	ListByUser(ctx context.Context, userID string) ([]domain.Link, error)

	// Replace swaps the user's entire link list for the given one,
	// preserving slice order as display order. Run inside a transaction.
	Replace(ctx context.Context, userID string, links []domain.Link) error
}
