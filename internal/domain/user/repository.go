package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for user accounts.
type Repository interface {
	// FindByID retrieves a user by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername retrieves a user by username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Save persists a new user.
	Save(ctx context.Context, u *User) error

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error
}
