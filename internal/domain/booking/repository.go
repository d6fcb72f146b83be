package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByIssuer retrieves bookings created by a specific user, optionally
	// filtered by status set, with pagination.
	FindByIssuer(ctx context.Context, userID uuid.UUID, statuses []BookingStatus, page, limit int) ([]*Booking, int64, error)

	// FindByFacility retrieves bookings targeting a specific facility,
	// optionally filtered by status set, with pagination.
	FindByFacility(ctx context.Context, facilityID uuid.UUID, statuses []BookingStatus, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// Delete permanently removes a booking (terminal-state history cleanup).
	Delete(ctx context.Context, id uuid.UUID) error
}

// SweepTx is the transactional view the lifecycle sweep operates on. All
// reads and writes made through it belong to one transaction; the sweep
// commits nothing if any of them fails.
type SweepTx interface {
	// DueForOngoing returns pending/accepted bookings whose check-in date has
	// arrived.
	DueForOngoing(now time.Time) ([]*Booking, error)

	// DueForExpiry returns pending/accepted bookings whose check-out date has
	// passed.
	DueForExpiry(now time.Time) ([]*Booking, error)

	// DueForCompletion returns ongoing bookings whose check-out date has
	// passed.
	DueForCompletion(now time.Time) ([]*Booking, error)

	// Update persists a transitioned booking with optimistic locking.
	Update(b *Booking) error

	// IncrementCompletedBookings bumps the facility's completion counter.
	IncrementCompletedBookings(facilityID uuid.UUID) error
}

// SweepStore opens sweep transactions.
type SweepStore interface {
	// InTransaction runs fn inside a single transaction. If fn returns an
	// error the transaction is rolled back and the error returned.
	InTransaction(ctx context.Context, fn func(tx SweepTx) error) error
}
