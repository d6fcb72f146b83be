package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/domain"
	dogDomain "github.com/pawsitivelybooked/server/internal/domain/dog"
)

// DogRequest holds the data for creating or updating a dog profile.
type DogRequest struct {
	Name                string  `json:"name"`
	Breed               string  `json:"breed"`
	Age                 int     `json:"age"`
	Size                string  `json:"size"`
	WeightKg            float64 `json:"weight_kg"`
	Sex                 string  `json:"sex"`
	EmergencyContact    string  `json:"emergency_contact"`
	FeedingInstructions string  `json:"feeding_instructions"`
	Medications         string  `json:"medications"`
	SpecialNeeds        string  `json:"special_needs"`
	VetName             string  `json:"vet_name"`
	VetPhone            string  `json:"vet_phone"`
	VetAddress          string  `json:"vet_address"`
}

// DogDTO is the response representation of a dog profile.
type DogDTO struct {
	ID                  uuid.UUID `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Name                string    `json:"name"`
	Breed               string    `json:"breed,omitempty"`
	Age                 int       `json:"age"`
	Size                string    `json:"size,omitempty"`
	WeightKg            float64   `json:"weight_kg,omitempty"`
	Sex                 string    `json:"sex,omitempty"`
	EmergencyContact    string    `json:"emergency_contact,omitempty"`
	FeedingInstructions string    `json:"feeding_instructions,omitempty"`
	Medications         string    `json:"medications,omitempty"`
	SpecialNeeds        string    `json:"special_needs,omitempty"`
	VetName             string    `json:"vet_name,omitempty"`
	VetPhone            string    `json:"vet_phone,omitempty"`
	VetAddress          string    `json:"vet_address,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// DogService is the application service for dog profiles.
type DogService struct {
	dogs   dogDomain.Repository
	logger *zap.Logger
}

// NewDogService creates a new DogService.
func NewDogService(dogs dogDomain.Repository, logger *zap.Logger) *DogService {
	return &DogService{dogs: dogs, logger: logger}
}

// AddDog creates a new dog profile for the acting owner.
func (s *DogService) AddDog(ctx context.Context, ownerID uuid.UUID, req DogRequest) (*DogDTO, error) {
	d, err := dogDomain.NewDog(
		ownerID,
		req.Name,
		req.Breed,
		req.Age,
		req.Size,
		req.WeightKg,
		req.Sex,
		req.EmergencyContact,
		req.FeedingInstructions,
		req.Medications,
		req.SpecialNeeds,
		req.VetName,
		req.VetPhone,
		req.VetAddress,
	)
	if err != nil {
		return nil, err
	}

	if err := s.dogs.Save(ctx, d); err != nil {
		return nil, err
	}

	dto := toDogDTO(d)
	return &dto, nil
}

// UpdateDog applies partial updates to a dog profile owned by the actor.
func (s *DogService) UpdateDog(ctx context.Context, actorID, dogID uuid.UUID, req DogRequest) (*DogDTO, error) {
	d, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if !d.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("dog profile does not belong to this user")
	}

	d.Update(
		req.Name,
		req.Breed,
		req.Age,
		req.Size,
		req.WeightKg,
		req.Sex,
		req.EmergencyContact,
		req.FeedingInstructions,
		req.Medications,
		req.SpecialNeeds,
		req.VetName,
		req.VetPhone,
		req.VetAddress,
	)
	if err := s.dogs.Update(ctx, d); err != nil {
		return nil, err
	}

	dto := toDogDTO(d)
	return &dto, nil
}

// GetDog retrieves a dog profile owned by the actor.
func (s *DogService) GetDog(ctx context.Context, actorID, dogID uuid.UUID) (*DogDTO, error) {
	d, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if !d.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("dog profile does not belong to this user")
	}
	dto := toDogDTO(d)
	return &dto, nil
}

// GetOwnerDogs lists all dog profiles belonging to an owner.
func (s *DogService) GetOwnerDogs(ctx context.Context, ownerID uuid.UUID) ([]DogDTO, error) {
	dogs, err := s.dogs.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]DogDTO, len(dogs))
	for i, d := range dogs {
		dtos[i] = toDogDTO(d)
	}
	return dtos, nil
}

// RemoveDog deletes a dog profile owned by the actor.
func (s *DogService) RemoveDog(ctx context.Context, actorID, dogID uuid.UUID) error {
	d, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return err
	}
	if !d.IsOwnedBy(actorID) {
		return domain.NewForbiddenError("dog profile does not belong to this user")
	}
	return s.dogs.Delete(ctx, dogID)
}

func toDogDTO(d *dogDomain.Dog) DogDTO {
	return DogDTO{
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
	}
}
