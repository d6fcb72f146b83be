package facility

import (
	"context"

	"github.com/google/uuid"
)

// Photo is a stored facility photo reference.
type Photo struct {
	ID         uuid.UUID
	FacilityID uuid.UUID
	Path       string
}

// Repository defines the persistence contract for facility aggregates.
type Repository interface {
	// FindByID retrieves a facility by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Facility, error)

	// FindByName retrieves a facility by its unique name.
	FindByName(ctx context.Context, name string) (*Facility, error)

	// FindByOwner retrieves all facilities belonging to an owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Facility, error)

	// ListAll retrieves all facilities with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Facility, int64, error)

	// Save persists a new facility.
	Save(ctx context.Context, f *Facility) error

	// Update persists changes to an existing facility with optimistic locking.
	Update(ctx context.Context, f *Facility) error

	// AddPhoto attaches a stored photo to a facility.
	AddPhoto(ctx context.Context, p *Photo) error

	// Photos lists stored photos for a facility.
	Photos(ctx context.Context, facilityID uuid.UUID) ([]*Photo, error)
}
