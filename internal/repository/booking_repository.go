package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsitivelybooked/server/internal/domain"
	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingCode  string    `gorm:"uniqueIndex;not null;size:20"`
	IssuedBy     uuid.UUID `gorm:"type:uuid;index;not null"`
	FacilityID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Status       string    `gorm:"not null;size:30;index"`
	CheckIn      time.Time `gorm:"not null;index"`
	CheckOut     time.Time `gorm:"not null;index"`
	NumberOfDogs int       `gorm:"not null"`
	Daycare      bool      `gorm:"not null"`
	Boarding     bool      `gorm:"not null"`
	Notes        string    `gorm:"size:1000"`
	Version      int64     `gorm:"not null;default:1"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindByIssuer retrieves bookings created by a user, optionally filtered by status set.
func (r *GormBookingRepository) FindByIssuer(ctx context.Context, userID uuid.UUID, statuses []bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("issued_by = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	return r.paginate(query, page, limit)
}

// FindByFacility retrieves bookings for a facility, optionally filtered by status set.
func (r *GormBookingRepository) FindByFacility(ctx context.Context, facilityID uuid.UUID, statuses []bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("facility_id = ?", facilityID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(statuses))
	}
	return r.paginate(query, page, limit)
}

func (r *GormBookingRepository) paginate(query *gorm.DB, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = toDomainBooking(&m)
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	return updateBookingLocked(r.db.WithContext(ctx), b)
}

// Delete permanently removes a booking.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

// updateBookingLocked applies the optimistic-locked update shared with the
// sweep transaction: the write succeeds only if nobody committed a newer
// version since the booking was loaded.
func updateBookingLocked(db *gorm.DB, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	expectedVersion := b.Version() - 1
	result := db.
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"check_in":   model.CheckIn,
			"check_out":  model.CheckOut,
			"notes":      model.Notes,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

func statusStrings(statuses []bookingDomain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:           b.ID(),
		BookingCode:  b.BookingCode(),
		IssuedBy:     b.IssuedBy(),
		FacilityID:   b.FacilityID(),
		Status:       string(b.Status()),
		CheckIn:      b.CheckIn(),
		CheckOut:     b.CheckOut(),
		NumberOfDogs: b.NumberOfDogs(),
		Daycare:      b.Daycare(),
		Boarding:     b.Boarding(),
		Notes:        b.Notes(),
		Version:      b.Version(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingCode,
		m.IssuedBy,
		m.FacilityID,
		bookingDomain.BookingStatus(m.Status),
		m.CheckIn,
		m.CheckOut,
		m.NumberOfDogs,
		m.Daycare,
		m.Boarding,
		m.Notes,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
