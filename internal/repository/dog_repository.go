package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsitivelybooked/server/internal/domain"
	dogDomain "github.com/pawsitivelybooked/server/internal/domain/dog"
)

// DogModel is the GORM model for the dogs table.
type DogModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID             uuid.UUID `gorm:"type:uuid;index;not null"`
	Name                string    `gorm:"not null;size:64"`
	Breed               string    `gorm:"size:64"`
	Age                 int       `gorm:""`
	Size                string    `gorm:"size:20"`
	WeightKg            float64   `gorm:""`
	Sex                 string    `gorm:"size:10"`
	EmergencyContact    string    `gorm:"size:128"`
	FeedingInstructions string    `gorm:"type:text"`
	Medications         string    `gorm:"type:text"`
	SpecialNeeds        string    `gorm:"type:text"`
	VetName             string    `gorm:"size:128"`
	VetPhone            string    `gorm:"size:64"`
	VetAddress          string    `gorm:"size:255"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (DogModel) TableName() string {
	return "dogs"
}

// GormDogRepository is the GORM-based implementation of dog.Repository.
type GormDogRepository struct {
	db *gorm.DB
}

// NewGormDogRepository creates a new GormDogRepository.
func NewGormDogRepository(db *gorm.DB) *GormDogRepository {
	return &GormDogRepository{db: db}
}

// FindByID retrieves a dog profile by its unique identifier.
func (r *GormDogRepository) FindByID(ctx context.Context, id uuid.UUID) (*dogDomain.Dog, error) {
	var model DogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Dog", id.String())
		}
		return nil, fmt.Errorf("failed to find dog by ID: %w", err)
	}
	return toDomainDog(&model), nil
}

// FindByOwner retrieves all dog profiles belonging to an owner.
func (r *GormDogRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*dogDomain.Dog, error) {
	var models []DogModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner dogs: %w", err)
	}

	dogs := make([]*dogDomain.Dog, len(models))
	for i, m := range models {
		dogs[i] = toDomainDog(&m)
	}
	return dogs, nil
}

// Save persists a new dog profile.
func (r *GormDogRepository) Save(ctx context.Context, d *dogDomain.Dog) error {
	if err := r.db.WithContext(ctx).Create(toDogModel(d)).Error; err != nil {
		return fmt.Errorf("failed to save dog: %w", err)
	}
	return nil
}

// Update persists changes to an existing dog profile.
func (r *GormDogRepository) Update(ctx context.Context, d *dogDomain.Dog) error {
	model := toDogModel(d)
	if err := r.db.WithContext(ctx).
		Model(&DogModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":                 model.Name,
			"breed":                model.Breed,
			"age":                  model.Age,
			"size":                 model.Size,
			"weight_kg":            model.WeightKg,
			"sex":                  model.Sex,
			"emergency_contact":    model.EmergencyContact,
			"feeding_instructions": model.FeedingInstructions,
			"medications":          model.Medications,
			"special_needs":        model.SpecialNeeds,
			"vet_name":             model.VetName,
			"vet_phone":            model.VetPhone,
			"vet_address":          model.VetAddress,
			"updated_at":           model.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update dog: %w", err)
	}
	return nil
}

// Delete removes a dog profile.
func (r *GormDogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DogModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete dog: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Dog", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toDogModel(d *dogDomain.Dog) *DogModel {
	return &DogModel{
		ID:                  d.ID(),
		OwnerID:             d.OwnerID(),
		Name:                d.Name(),
		Breed:               d.Breed(),
		Age:                 d.Age(),
		Size:                d.Size(),
		WeightKg:            d.WeightKg(),
		Sex:                 d.Sex(),
		EmergencyContact:    d.EmergencyContact(),
		FeedingInstructions: d.FeedingInstructions(),
		Medications:         d.Medications(),
		SpecialNeeds:        d.SpecialNeeds(),
		VetName:             d.VetName(),
		VetPhone:            d.VetPhone(),
		VetAddress:          d.VetAddress(),
		CreatedAt:           d.CreatedAt(),
		UpdatedAt:           d.UpdatedAt(),
	}
}

func toDomainDog(m *DogModel) *dogDomain.Dog {
	return dogDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.Breed,
		m.Age,
		m.Size,
		m.WeightKg,
		m.Sex,
		m.EmergencyContact,
		m.FeedingInstructions,
		m.Medications,
		m.SpecialNeeds,
		m.VetName,
		m.VetPhone,
		m.VetAddress,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
