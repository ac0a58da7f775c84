package store

import (
	"context"
	"errors"

	"github.com/pantrylabs/pantry/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshCredentials() RefreshCredentials

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
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
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.Principal, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.Principal, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, p domain.Principal) error
}

type RefreshCredentials interface {
	// CreateRefreshCredential stores a new refresh credential record.
	CreateRefreshCredential(ctx context.Context, c domain.RefreshCredential) error

	// RefreshCredentialExists reports whether an unexpired credential with the
	// given fingerprint is on record.
	RefreshCredentialExists(ctx context.Context, hash string) (bool, error)

	// DeleteRefreshCredentialByHash removes a credential by its fingerprint.
	// Deleting a fingerprint that is not on record is not an error.
	DeleteRefreshCredentialByHash(ctx context.Context, hash string) error

	// DeleteRefreshCredentialsBySubject bulk removal for one subject
	// (logout-everywhere, password reset).
	DeleteRefreshCredentialsBySubject(ctx context.Context, subjectID string) error

	// DeleteExpiredRefreshCredentials is housekeeping.
	DeleteExpiredRefreshCredentials(ctx context.Context) error
}
