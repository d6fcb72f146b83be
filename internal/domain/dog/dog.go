package dog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawsitivelybooked/server/internal/domain"
)

// Dog is the aggregate root for a dog profile owned by a dog owner. Care
// details travel with the profile so facilities can be briefed per stay.
type Dog struct {
	id                  uuid.UUID
	ownerID             uuid.UUID
	name                string
	breed               string
	age                 int
	size                string
	weightKg            float64
	sex                 string
	emergencyContact    string
	feedingInstructions string
	medications         string
	specialNeeds        string
	vetName             string
	vetPhone            string
	vetAddress          string
	createdAt           time.Time
	updatedAt           time.Time
}

// NewDog creates a new dog profile for the given owner.
func NewDog(
	ownerID uuid.UUID,
	name, breed string,
	age int,
	size string,
	weightKg float64,
	sex, emergencyContact, feedingInstructions, medications, specialNeeds, vetName, vetPhone, vetAddress string,
) (*Dog, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("dog name is required")
	}
	if age < 0 {
		return nil, domain.NewValidationError("age cannot be negative")
	}
	if weightKg < 0 {
		return nil, domain.NewValidationError("weight cannot be negative")
	}

	now := time.Now().UTC()
	return &Dog{
		id:                  uuid.New(),
		ownerID:             ownerID,
		name:                name,
		breed:               breed,
		age:                 age,
		size:                size,
		weightKg:            weightKg,
		sex:                 sex,
		emergencyContact:    emergencyContact,
		feedingInstructions: feedingInstructions,
		medications:         medications,
		specialNeeds:        specialNeeds,
		vetName:             vetName,
		vetPhone:            vetPhone,
		vetAddress:          vetAddress,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds a Dog from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, breed string,
	age int,
	size string,
	weightKg float64,
	sex, emergencyContact, feedingInstructions, medications, specialNeeds, vetName, vetPhone, vetAddress string,
	createdAt, updatedAt time.Time,
) *Dog {
	return &Dog{
		id:                  id,
		ownerID:             ownerID,
		name:                name,
		breed:               breed,
		age:                 age,
		size:                size,
		weightKg:            weightKg,
		sex:                 sex,
		emergencyContact:    emergencyContact,
		feedingInstructions: feedingInstructions,
		medications:         medications,
		specialNeeds:        specialNeeds,
		vetName:             vetName,
		vetPhone:            vetPhone,
		vetAddress:          vetAddress,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

func (d *Dog) ID() uuid.UUID               { return d.id }
func (d *Dog) OwnerID() uuid.UUID          { return d.ownerID }
func (d *Dog) Name() string                { return d.name }
func (d *Dog) Breed() string               { return d.breed }
func (d *Dog) Age() int                    { return d.age }
func (d *Dog) Size() string                { return d.size }
func (d *Dog) WeightKg() float64           { return d.weightKg }
func (d *Dog) Sex() string                 { return d.sex }
func (d *Dog) EmergencyContact() string    { return d.emergencyContact }
func (d *Dog) FeedingInstructions() string { return d.feedingInstructions }
func (d *Dog) Medications() string         { return d.medications }
func (d *Dog) SpecialNeeds() string        { return d.specialNeeds }
func (d *Dog) VetName() string             { return d.vetName }
func (d *Dog) VetPhone() string            { return d.vetPhone }
func (d *Dog) VetAddress() string          { return d.vetAddress }
func (d *Dog) CreatedAt() time.Time        { return d.createdAt }
func (d *Dog) UpdatedAt() time.Time        { return d.updatedAt }

// IsOwnedBy checks whether the profile belongs to the given owner.
func (d *Dog) IsOwnedBy(ownerID uuid.UUID) bool {
	return d.ownerID == ownerID
}

// Update applies partial updates to the dog profile.
func (d *Dog) Update(
	name, breed string,
	age int,
	size string,
	weightKg float64,
	sex, emergencyContact, feedingInstructions, medications, specialNeeds, vetName, vetPhone, vetAddress string,
) {
	if name != "" {
		d.name = name
	}
	if breed != "" {
		d.breed = breed
	}
	if age > 0 {
		d.age = age
	}
	if size != "" {
		d.size = size
	}
	if weightKg > 0 {
		d.weightKg = weightKg
	}
	if sex != "" {
		d.sex = sex
	}
	if emergencyContact != "" {
		d.emergencyContact = emergencyContact
	}
	if feedingInstructions != "" {
		d.feedingInstructions = feedingInstructions
	}
	if medications != "" {
		d.medications = medications
	}
	if specialNeeds != "" {
		d.specialNeeds = specialNeeds
	}
	if vetName != "" {
		d.vetName = vetName
	}
	if vetPhone != "" {
		d.vetPhone = vetPhone
	}
	if vetAddress != "" {
		d.vetAddress = vetAddress
	}
	d.updatedAt = time.Now().UTC()
}
