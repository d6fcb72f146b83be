package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
)

// GormSweepStore opens sweep transactions against PostgreSQL. The lifecycle
// sweep runs all three passes inside one transaction so a persistence
// failure rolls the whole invocation back.
type GormSweepStore struct {
	db *gorm.DB
}

// NewGormSweepStore creates a new GormSweepStore.
func NewGormSweepStore(db *gorm.DB) *GormSweepStore {
	return &GormSweepStore{db: db}
}

// InTransaction runs fn inside a single database transaction.
func (s *GormSweepStore) InTransaction(ctx context.Context, fn func(tx bookingDomain.SweepTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSweepTx{tx: tx})
	})
}

type gormSweepTx struct {
	tx *gorm.DB
}

// DueForOngoing returns pending/accepted bookings whose check-in date has arrived.
func (t *gormSweepTx) DueForOngoing(now time.Time) ([]*bookingDomain.Booking, error) {
	return t.findDue("check_in <= ?", []string{"pending", "accepted"}, now)
}

// DueForExpiry returns pending/accepted bookings whose check-out date has passed.
func (t *gormSweepTx) DueForExpiry(now time.Time) ([]*bookingDomain.Booking, error) {
	return t.findDue("check_out <= ?", []string{"pending", "accepted"}, now)
}

// DueForCompletion returns ongoing bookings whose check-out date has passed.
func (t *gormSweepTx) DueForCompletion(now time.Time) ([]*bookingDomain.Booking, error) {
	return t.findDue("check_out <= ?", []string{"ongoing"}, now)
}

func (t *gormSweepTx) findDue(dateCond string, statuses []string, now time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := t.tx.
		Where("status IN ?", statuses).
		Where(dateCond, now).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query due bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings, nil
}

// Update persists a transitioned booking with optimistic locking.
func (t *gormSweepTx) Update(b *bookingDomain.Booking) error {
	return updateBookingLocked(t.tx, b)
}

// IncrementCompletedBookings bumps the facility's completion counter,
// treating NULL as zero.
func (t *gormSweepTx) IncrementCompletedBookings(facilityID uuid.UUID) error {
	result := t.tx.Model(&FacilityModel{}).
		Where("id = ?", facilityID).
		Update("completed_bookings", gorm.Expr("COALESCE(completed_bookings, 0) + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment completed bookings: %w", result.Error)
	}
	return nil
}
