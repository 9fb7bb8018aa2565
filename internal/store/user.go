package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create validates the user, hashes its plaintext Password and saves it.
	// Returns ErrEmailExists or ErrUserNameExists when either is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email, case-insensitively.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUserName retrieves a user by their unique user name.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)

	// Delete removes a user together with everything they own.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore that runs on tx.
	WithTx(tx *sql.Tx) UserStore
}
