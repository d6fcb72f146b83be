package facility

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawsitivelybooked/server/internal/domain"
)

// Facility is the aggregate root for a boarding facility listing. The
// completed-bookings counter is owned by the lifecycle sweep; everything
// else is owner-managed profile data.
type Facility struct {
	id                 uuid.UUID
	ownerID            uuid.UUID
	name               string
	description        string
	location           string
	latitude           float64
	longitude          float64
	daycare            bool
	boarding           bool
	amenities          string
	operatingHours     string
	contactPhone       string
	contactEmail       string
	pricing            string
	capacity           int
	emergencyTransport bool
	completedBookings  int64
	avgRating          float64

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewFacility creates a new facility listing for the given owner.
func NewFacility(
	ownerID uuid.UUID,
	name, description, location string,
	latitude, longitude float64,
	daycare, boarding bool,
	amenities, operatingHours, contactPhone, contactEmail, pricing string,
	capacity int,
	emergencyTransport bool,
) (*Facility, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("facility name is required")
	}
	if contactEmail == "" {
		return nil, domain.NewValidationError("contact email is required")
	}
	if !daycare && !boarding {
		return nil, domain.NewValidationError("facility must offer daycare, boarding, or both")
	}
	if capacity < 0 {
		return nil, domain.NewValidationError("capacity cannot be negative")
	}

	now := time.Now().UTC()
	return &Facility{
		id:                 uuid.New(),
		ownerID:            ownerID,
		name:               name,
		description:        description,
		location:           location,
		latitude:           latitude,
		longitude:          longitude,
		daycare:            daycare,
		boarding:           boarding,
		amenities:          amenities,
		operatingHours:     operatingHours,
		contactPhone:       contactPhone,
		contactEmail:       contactEmail,
		pricing:            pricing,
		capacity:           capacity,
		emergencyTransport: emergencyTransport,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Facility from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, description, location string,
	latitude, longitude float64,
	daycare, boarding bool,
	amenities, operatingHours, contactPhone, contactEmail, pricing string,
	capacity int,
	emergencyTransport bool,
	completedBookings int64,
	avgRating float64,
	version int64,
	createdAt, updatedAt time.Time,
) *Facility {
	return &Facility{
		id:                 id,
		ownerID:            ownerID,
		name:               name,
		description:        description,
		location:           location,
		latitude:           latitude,
		longitude:          longitude,
		daycare:            daycare,
		boarding:           boarding,
		amenities:          amenities,
		operatingHours:     operatingHours,
		contactPhone:       contactPhone,
		contactEmail:       contactEmail,
		pricing:            pricing,
		capacity:           capacity,
		emergencyTransport: emergencyTransport,
		completedBookings:  completedBookings,
		avgRating:          avgRating,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

func (f *Facility) ID() uuid.UUID            { return f.id }
func (f *Facility) OwnerID() uuid.UUID       { return f.ownerID }
func (f *Facility) Name() string             { return f.name }
func (f *Facility) Description() string      { return f.description }
func (f *Facility) Location() string         { return f.location }
func (f *Facility) Latitude() float64        { return f.latitude }
func (f *Facility) Longitude() float64       { return f.longitude }
func (f *Facility) Daycare() bool            { return f.daycare }
func (f *Facility) Boarding() bool           { return f.boarding }
func (f *Facility) Amenities() string        { return f.amenities }
func (f *Facility) OperatingHours() string   { return f.operatingHours }
func (f *Facility) ContactPhone() string     { return f.contactPhone }
func (f *Facility) ContactEmail() string     { return f.contactEmail }
func (f *Facility) Pricing() string          { return f.pricing }
func (f *Facility) Capacity() int            { return f.capacity }
func (f *Facility) EmergencyTransport() bool { return f.emergencyTransport }
func (f *Facility) CompletedBookings() int64 { return f.completedBookings }
func (f *Facility) AvgRating() float64       { return f.avgRating }
func (f *Facility) Version() int64           { return f.version }
func (f *Facility) CreatedAt() time.Time     { return f.createdAt }
func (f *Facility) UpdatedAt() time.Time     { return f.updatedAt }

// IsOwnedBy checks whether the facility belongs to the given owner.
func (f *Facility) IsOwnedBy(ownerID uuid.UUID) bool {
	return f.ownerID == ownerID
}

// UpdateProfile applies partial updates to the facility listing. Empty
// strings and nil flags leave the current value untouched.
func (f *Facility) UpdateProfile(
	description, location string,
	latitude, longitude *float64,
	daycare, boarding *bool,
	amenities, operatingHours, contactPhone, contactEmail, pricing string,
	capacity *int,
) {
	if description != "" {
		f.description = description
	}
	if location != "" {
		f.location = location
	}
	if latitude != nil {
		f.latitude = *latitude
	}
	if longitude != nil {
		f.longitude = *longitude
	}
	if daycare != nil {
		f.daycare = *daycare
	}
	if boarding != nil {
		f.boarding = *boarding
	}
	if amenities != "" {
		f.amenities = amenities
	}
	if operatingHours != "" {
		f.operatingHours = operatingHours
	}
	if contactPhone != "" {
		f.contactPhone = contactPhone
	}
	if contactEmail != "" {
		f.contactEmail = contactEmail
	}
	if pricing != "" {
		f.pricing = pricing
	}
	if capacity != nil && *capacity >= 0 {
		f.capacity = *capacity
	}
	f.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (f *Facility) IncrementVersion() {
	f.version++
}
