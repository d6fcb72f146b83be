package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsitivelybooked/server/internal/domain"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
)

// FacilityModel is the GORM model for the facilities table.
type FacilityModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID `gorm:"type:uuid;index;not null"`
	Name               string    `gorm:"uniqueIndex;not null;size:64"`
	Description        string    `gorm:"type:text"`
	Location           string    `gorm:"size:255"`
	Latitude           float64   `gorm:""`
	Longitude          float64   `gorm:""`
	Daycare            bool      `gorm:"not null"`
	Boarding           bool      `gorm:"not null"`
	Amenities          string    `gorm:"type:text"`
	OperatingHours     string    `gorm:"size:64"`
	ContactPhone       string    `gorm:"size:64"`
	ContactEmail       string    `gorm:"not null;size:120"`
	Pricing            string    `gorm:"size:64"`
	Capacity           int       `gorm:""`
	EmergencyTransport bool      `gorm:""`
	CompletedBookings  int64     `gorm:"not null;default:0"`
	AvgRating          float64   `gorm:"not null;default:0"`
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (FacilityModel) TableName() string {
	return "facilities"
}

// FacilityPhotoModel is the GORM model for the facility_photos table.
type FacilityPhotoModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`
	Path       string    `gorm:"not null;size:255"`
}

// TableName returns the table name for the GORM model.
func (FacilityPhotoModel) TableName() string {
	return "facility_photos"
}

// GormFacilityRepository is the GORM-based implementation of facility.Repository.
type GormFacilityRepository struct {
	db *gorm.DB
}

// NewGormFacilityRepository creates a new GormFacilityRepository.
func NewGormFacilityRepository(db *gorm.DB) *GormFacilityRepository {
	return &GormFacilityRepository{db: db}
}

// FindByID retrieves a facility by its unique identifier.
func (r *GormFacilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*facilityDomain.Facility, error) {
	var model FacilityModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Facility", id.String())
		}
		return nil, fmt.Errorf("failed to find facility by ID: %w", err)
	}
	return toDomainFacility(&model), nil
}

// FindByName retrieves a facility by its unique name.
func (r *GormFacilityRepository) FindByName(ctx context.Context, name string) (*facilityDomain.Facility, error) {
	var model FacilityModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Facility", name)
		}
		return nil, fmt.Errorf("failed to find facility by name: %w", err)
	}
	return toDomainFacility(&model), nil
}

// FindByOwner retrieves all facilities belonging to an owner.
func (r *GormFacilityRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*facilityDomain.Facility, error) {
	var models []FacilityModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner facilities: %w", err)
	}

	facilities := make([]*facilityDomain.Facility, len(models))
	for i, m := range models {
		facilities[i] = toDomainFacility(&m)
	}
	return facilities, nil
}

// ListAll retrieves all facilities with pagination.
func (r *GormFacilityRepository) ListAll(ctx context.Context, page, limit int) ([]*facilityDomain.Facility, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&FacilityModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count facilities: %w", err)
	}

	var models []FacilityModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list facilities: %w", err)
	}

	facilities := make([]*facilityDomain.Facility, len(models))
	for i, m := range models {
		facilities[i] = toDomainFacility(&m)
	}
	return facilities, total, nil
}

// Save persists a new facility.
func (r *GormFacilityRepository) Save(ctx context.Context, f *facilityDomain.Facility) error {
	if err := r.db.WithContext(ctx).Create(toFacilityModel(f)).Error; err != nil {
		return fmt.Errorf("failed to save facility: %w", err)
	}
	return nil
}

// Update persists changes to an existing facility with optimistic locking.
func (r *GormFacilityRepository) Update(ctx context.Context, f *facilityDomain.Facility) error {
	model := toFacilityModel(f)
	expectedVersion := f.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&FacilityModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"description":         model.Description,
			"location":            model.Location,
			"latitude":            model.Latitude,
			"longitude":           model.Longitude,
			"daycare":             model.Daycare,
			"boarding":            model.Boarding,
			"amenities":           model.Amenities,
			"operating_hours":     model.OperatingHours,
			"contact_phone":       model.ContactPhone,
			"contact_email":       model.ContactEmail,
			"pricing":             model.Pricing,
			"capacity":            model.Capacity,
			"emergency_transport": model.EmergencyTransport,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update facility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("facility was modified by another transaction")
	}
	return nil
}

// AddPhoto attaches a stored photo to a facility.
func (r *GormFacilityRepository) AddPhoto(ctx context.Context, p *facilityDomain.Photo) error {
	model := FacilityPhotoModel{ID: p.ID, FacilityID: p.FacilityID, Path: p.Path}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save facility photo: %w", err)
	}
	return nil
}

// Photos lists stored photos for a facility.
func (r *GormFacilityRepository) Photos(ctx context.Context, facilityID uuid.UUID) ([]*facilityDomain.Photo, error) {
	var models []FacilityPhotoModel
	if err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list facility photos: %w", err)
	}

	photos := make([]*facilityDomain.Photo, len(models))
	for i, m := range models {
		photos[i] = &facilityDomain.Photo{ID: m.ID, FacilityID: m.FacilityID, Path: m.Path}
	}
	return photos, nil
}

// --- Conversion Helpers ---

func toFacilityModel(f *facilityDomain.Facility) *FacilityModel {
	return &FacilityModel{
		ID:                 f.ID(),
		OwnerID:            f.OwnerID(),
		Name:               f.Name(),
		Description:        f.Description(),
		Location:           f.Location(),
		Latitude:           f.Latitude(),
		Longitude:          f.Longitude(),
		Daycare:            f.Daycare(),
		Boarding:           f.Boarding(),
		Amenities:          f.Amenities(),
		OperatingHours:     f.OperatingHours(),
		ContactPhone:       f.ContactPhone(),
		ContactEmail:       f.ContactEmail(),
		Pricing:            f.Pricing(),
		Capacity:           f.Capacity(),
		EmergencyTransport: f.EmergencyTransport(),
		CompletedBookings:  f.CompletedBookings(),
		AvgRating:          f.AvgRating(),
		Version:            f.Version(),
		CreatedAt:          f.CreatedAt(),
		UpdatedAt:          f.UpdatedAt(),
	}
}

func toDomainFacility(m *FacilityModel) *facilityDomain.Facility {
	return facilityDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Location,
		m.Latitude,
		m.Longitude,
		m.Daycare,
		m.Boarding,
		m.Amenities,
		m.OperatingHours,
		m.ContactPhone,
		m.ContactEmail,
		m.Pricing,
		m.Capacity,
		m.EmergencyTransport,
		m.CompletedBookings,
		m.AvgRating,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
