package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/pawsitivelybooked/server/internal/domain"
)

const bookingCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a stay request at a facility. The status
// field is mutated only through the transition methods below; date-driven
// transitions take the sweep's notion of "now" so the lifecycle job stays
// testable.
type Booking struct {
	id           uuid.UUID
	bookingCode  string
	issuedBy     uuid.UUID
	facilityID   uuid.UUID
	status       BookingStatus
	checkIn      time.Time
	checkOut     time.Time
	numberOfDogs int
	daycare      bool
	boarding     bool
	notes        string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingCode creates a booking code in the format "PB-XXXXXX".
func generateBookingCode() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingCodeChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking code: %w", err)
		}
		result[i] = bookingCodeChars[n.Int64()]
	}
	return "PB-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	issuedBy uuid.UUID,
	facilityID uuid.UUID,
	checkIn, checkOut time.Time,
	numberOfDogs int,
	daycare, boarding bool,
	notes string,
) (*Booking, error) {
	if issuedBy == uuid.Nil {
		return nil, domain.NewValidationError("issuing user ID is required")
	}
	if facilityID == uuid.Nil {
		return nil, domain.NewValidationError("facility ID is required")
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return nil, domain.NewValidationError("check-in and check-out dates are required")
	}
	if DateOnly(checkOut).Before(DateOnly(checkIn)) {
		return nil, domain.NewValidationError("check-out date must not be before check-in date")
	}
	if numberOfDogs <= 0 {
		return nil, domain.NewValidationError("number of dogs must be positive")
	}
	if !daycare && !boarding {
		return nil, domain.NewValidationError("at least one of daycare or boarding must be selected")
	}

	code, err := generateBookingCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:           uuid.New(),
		bookingCode:  code,
		issuedBy:     issuedBy,
		facilityID:   facilityID,
		status:       StatusPending,
		checkIn:      checkIn,
		checkOut:     checkOut,
		numberOfDogs: numberOfDogs,
		daycare:      daycare,
		boarding:     boarding,
		notes:        notes,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingCode string,
	issuedBy, facilityID uuid.UUID,
	status BookingStatus,
	checkIn, checkOut time.Time,
	numberOfDogs int,
	daycare, boarding bool,
	notes string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		bookingCode:  bookingCode,
		issuedBy:     issuedBy,
		facilityID:   facilityID,
		status:       status,
		checkIn:      checkIn,
		checkOut:     checkOut,
		numberOfDogs: numberOfDogs,
		daycare:      daycare,
		boarding:     boarding,
		notes:        notes,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingCode returns the human-readable booking code.
func (b *Booking) BookingCode() string { return b.bookingCode }

// IssuedBy returns the requesting user's ID.
func (b *Booking) IssuedBy() uuid.UUID { return b.issuedBy }

// FacilityID returns the target facility's ID.
func (b *Booking) FacilityID() uuid.UUID { return b.facilityID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CheckIn returns the check-in date.
func (b *Booking) CheckIn() time.Time { return b.checkIn }

// CheckOut returns the check-out date.
func (b *Booking) CheckOut() time.Time { return b.checkOut }

// NumberOfDogs returns how many dogs the stay covers.
func (b *Booking) NumberOfDogs() int { return b.numberOfDogs }

// Daycare returns whether daycare service was requested.
func (b *Booking) Daycare() bool { return b.daycare }

// Boarding returns whether boarding service was requested.
func (b *Booking) Boarding() bool { return b.boarding }

// Notes returns any free-text notes attached to the booking.
func (b *Booking) Notes() string { return b.notes }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsIssuedBy checks whether the booking was created by the given user.
func (b *Booking) IsIssuedBy(userID uuid.UUID) bool {
	return b.issuedBy == userID
}

// TotalDays returns the stay duration in whole days.
func (b *Booking) TotalDays() int {
	return int(DateOnly(b.checkOut).Sub(DateOnly(b.checkIn)).Hours() / 24)
}

// --- User-action transitions ---

// Accept transitions the booking from pending to accepted.
func (b *Booking) Accept() error {
	if !b.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusAccepted))
	}
	b.status = StatusAccepted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Decline transitions the booking from pending to declined.
func (b *Booking) Decline() error {
	if !b.status.CanTransitionTo(StatusDeclined) {
		return domain.NewInvalidStateError(string(b.status), string(StatusDeclined))
	}
	b.status = StatusDeclined
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking from pending or accepted to cancelled.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// --- Sweep-driven transitions ---

// MarkOngoing promotes a pending or accepted booking to ongoing once its
// check-in date has arrived.
func (b *Booking) MarkOngoing(now time.Time) error {
	if !b.status.CanTransitionTo(StatusOngoing) {
		return domain.NewInvalidStateError(string(b.status), string(StatusOngoing))
	}
	if DateOnly(now).Before(DateOnly(b.checkIn)) {
		return domain.NewValidationError("check-in date has not arrived")
	}
	b.status = StatusOngoing
	b.updatedAt = now
	return nil
}

// Expire moves a pending or accepted booking whose check-out date has passed
// to expired.
func (b *Booking) Expire(now time.Time) error {
	if !b.status.CanTransitionTo(StatusExpired) {
		return domain.NewInvalidStateError(string(b.status), string(StatusExpired))
	}
	if DateOnly(now).Before(DateOnly(b.checkOut)) {
		return domain.NewValidationError("check-out date has not passed")
	}
	b.status = StatusExpired
	b.updatedAt = now
	return nil
}

// Complete moves an ongoing booking whose check-out date has passed to
// completed.
func (b *Booking) Complete(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	if DateOnly(now).Before(DateOnly(b.checkOut)) {
		return domain.NewValidationError("check-out date has not passed")
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// DateOnly truncates a timestamp to its calendar date. Lifecycle comparisons
// happen at date granularity, matching the check-in/check-out semantics.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
