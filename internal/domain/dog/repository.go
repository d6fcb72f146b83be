package dog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for dog profiles.
type Repository interface {
	// FindByID retrieves a dog profile by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Dog, error)

	// FindByOwner retrieves all dog profiles belonging to an owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Dog, error)

	// Save persists a new dog profile.
	Save(ctx context.Context, d *Dog) error

	// Update persists changes to an existing dog profile.
	Update(ctx context.Context, d *Dog) error

	// Delete removes a dog profile.
	Delete(ctx context.Context, id uuid.UUID) error
}
