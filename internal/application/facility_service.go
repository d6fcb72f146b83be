package application

import (
	"context"
	"io"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/domain"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
	"github.com/pawsitivelybooked/server/internal/geo"
	"github.com/pawsitivelybooked/server/internal/storage"
)

// RegisterFacilityRequest holds the data needed to list a facility.
type RegisterFacilityRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	Location           string `json:"location" binding:"required"`
	Daycare            bool   `json:"daycare"`
	Boarding           bool   `json:"boarding"`
	Amenities          string `json:"amenities"`
	OperatingHours     string `json:"operating_hours"`
	ContactPhone       string `json:"contact_phone"`
	ContactEmail       string `json:"contact_email" binding:"required,email"`
	Pricing            string `json:"pricing"`
	Capacity           int    `json:"capacity"`
	EmergencyTransport bool   `json:"emergency_transport"`
}

// UpdateFacilityRequest holds partial facility updates. Pointer fields
// distinguish "unset" from a deliberate false/zero.
type UpdateFacilityRequest struct {
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	Daycare        *bool    `json:"daycare"`
	Boarding       *bool    `json:"boarding"`
	Amenities      string   `json:"amenities"`
	OperatingHours string   `json:"operating_hours"`
	ContactPhone   string   `json:"contact_phone"`
	ContactEmail   string   `json:"contact_email"`
	Pricing        string   `json:"pricing"`
	Capacity       *int     `json:"capacity"`
}

// FacilityDTO is the response representation of a facility.
type FacilityDTO struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Location           string    `json:"location"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Daycare            bool      `json:"daycare"`
	Boarding           bool      `json:"boarding"`
	Amenities          string    `json:"amenities,omitempty"`
	OperatingHours     string    `json:"operating_hours,omitempty"`
	ContactPhone       string    `json:"contact_phone,omitempty"`
	ContactEmail       string    `json:"contact_email"`
	Pricing            string    `json:"pricing,omitempty"`
	Capacity           int       `json:"capacity,omitempty"`
	EmergencyTransport bool      `json:"emergency_transport"`
	CompletedBookings  int64     `json:"completed_bookings"`
	AvgRating          float64   `json:"avg_rating"`
	DistanceKm         *float64  `json:"distance_km,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// FacilitySearchRequest describes a proximity search.
type FacilitySearchRequest struct {
	Address  string  `form:"address" binding:"required"`
	RadiusKm float64 `form:"radius_km"`
	Daycare  bool    `form:"daycare"`
	Boarding bool    `form:"boarding"`
}

const defaultSearchRadiusKm = 25.0

// FacilityService is the application service for facility listings.
type FacilityService struct {
	facilities facilityDomain.Repository
	geocoder   geo.Geocoder
	photos     storage.PhotoStore
	logger     *zap.Logger
}

// NewFacilityService creates a new FacilityService.
func NewFacilityService(facilities facilityDomain.Repository, geocoder geo.Geocoder, photos storage.PhotoStore, logger *zap.Logger) *FacilityService {
	return &FacilityService{facilities: facilities, geocoder: geocoder, photos: photos, logger: logger}
}

// RegisterFacility lists a new facility for the acting owner. The free-text
// location is geocoded at registration time so proximity search never needs
// to geocode listed facilities.
func (s *FacilityService) RegisterFacility(ctx context.Context, ownerID uuid.UUID, req RegisterFacilityRequest) (*FacilityDTO, error) {
	if _, err := s.facilities.FindByName(ctx, req.Name); err == nil {
		return nil, domain.NewConflictError("facility name is already taken")
	}

	coords, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		return nil, domain.NewValidationError("facility address could not be resolved")
	}

	fac, err := facilityDomain.NewFacility(
		ownerID,
		req.Name,
		req.Description,
		req.Location,
		coords.Latitude,
		coords.Longitude,
		req.Daycare,
		req.Boarding,
		req.Amenities,
		req.OperatingHours,
		req.ContactPhone,
		req.ContactEmail,
		req.Pricing,
		req.Capacity,
		req.EmergencyTransport,
	)
	if err != nil {
		return nil, err
	}

	if err := s.facilities.Save(ctx, fac); err != nil {
		return nil, err
	}

	s.logger.Info("facility registered",
		zap.String("facility_id", fac.ID().String()),
		zap.String("name", fac.Name()),
	)
	dto := toFacilityDTO(fac, nil)
	return &dto, nil
}

// UpdateFacility applies partial updates to a facility owned by the actor.
func (s *FacilityService) UpdateFacility(ctx context.Context, actorID, facilityID uuid.UUID, req UpdateFacilityRequest) (*FacilityDTO, error) {
	fac, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !fac.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("facility does not belong to this user")
	}

	var lat, lng *float64
	if req.Location != "" {
		coords, err := s.geocoder.Geocode(ctx, req.Location)
		if err != nil {
			return nil, domain.NewValidationError("facility address could not be resolved")
		}
		lat, lng = &coords.Latitude, &coords.Longitude
	}

	fac.UpdateProfile(
		req.Description,
		req.Location,
		lat, lng,
		req.Daycare,
		req.Boarding,
		req.Amenities,
		req.OperatingHours,
		req.ContactPhone,
		req.ContactEmail,
		req.Pricing,
		req.Capacity,
	)
	if !fac.Daycare() && !fac.Boarding() {
		return nil, domain.NewValidationError("facility must offer daycare, boarding, or both")
	}

	fac.IncrementVersion()
	if err := s.facilities.Update(ctx, fac); err != nil {
		return nil, err
	}

	dto := toFacilityDTO(fac, nil)
	return &dto, nil
}

// GetFacility retrieves a single facility.
func (s *FacilityService) GetFacility(ctx context.Context, facilityID uuid.UUID) (*FacilityDTO, error) {
	fac, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	dto := toFacilityDTO(fac, nil)
	return &dto, nil
}

// GetOwnerFacilities lists all facilities belonging to an owner.
func (s *FacilityService) GetOwnerFacilities(ctx context.Context, ownerID uuid.UUID) ([]FacilityDTO, error) {
	facilities, err := s.facilities.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]FacilityDTO, len(facilities))
	for i, fac := range facilities {
		dtos[i] = toFacilityDTO(fac, nil)
	}
	return dtos, nil
}

// ListFacilities returns a paginated list of all facilities.
func (s *FacilityService) ListFacilities(ctx context.Context, page, limit int) (*domain.PaginatedResult[FacilityDTO], error) {
	facilities, total, err := s.facilities.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]FacilityDTO, len(facilities))
	for i, fac := range facilities {
		dtos[i] = toFacilityDTO(fac, nil)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// SearchFacilities geocodes the given address and returns facilities within
// the radius, nearest first, optionally filtered by offered services.
func (s *FacilityService) SearchFacilities(ctx context.Context, req FacilitySearchRequest) ([]FacilityDTO, error) {
	coords, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return nil, domain.NewValidationError("search address could not be resolved")
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = defaultSearchRadiusKm
	}

	// Listings are small enough to filter in memory; a spatial index can
	// replace this if the listing count ever warrants it.
	facilities, _, err := s.facilities.ListAll(ctx, 1, math.MaxInt32)
	if err != nil {
		return nil, err
	}

	var results []FacilityDTO
	for _, fac := range facilities {
		if req.Daycare && !fac.Daycare() {
			continue
		}
		if req.Boarding && !fac.Boarding() {
			continue
		}
		dist := geo.HaversineKm(coords.Latitude, coords.Longitude, fac.Latitude(), fac.Longitude())
		if dist > radius {
			continue
		}
		results = append(results, toFacilityDTO(fac, &dist))
	}

	sort.Slice(results, func(i, j int) bool {
		return *results[i].DistanceKm < *results[j].DistanceKm
	})
	return results, nil
}

// AddPhoto stores an uploaded photo and attaches it to a facility owned by
// the actor.
func (s *FacilityService) AddPhoto(ctx context.Context, actorID, facilityID uuid.UUID, filename string, content io.Reader) (*facilityDomain.Photo, error) {
	fac, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !fac.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("facility does not belong to this user")
	}

	path, err := s.photos.Save(filename, content)
	if err != nil {
		return nil, err
	}

	photo := &facilityDomain.Photo{ID: uuid.New(), FacilityID: facilityID, Path: path}
	if err := s.facilities.AddPhoto(ctx, photo); err != nil {
		if removeErr := s.photos.Remove(path); removeErr != nil {
			s.logger.Warn("failed to remove orphaned photo file",
				zap.String("path", path),
				zap.Error(removeErr),
			)
		}
		return nil, err
	}
	return photo, nil
}

// GetPhotos lists stored photos for a facility.
func (s *FacilityService) GetPhotos(ctx context.Context, facilityID uuid.UUID) ([]*facilityDomain.Photo, error) {
	if _, err := s.facilities.FindByID(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.facilities.Photos(ctx, facilityID)
}

func toFacilityDTO(fac *facilityDomain.Facility, distanceKm *float64) FacilityDTO {
	return FacilityDTO{
		ID:                 fac.ID(),
		OwnerID:            fac.OwnerID(),
		Name:               fac.Name(),
		Description:        fac.Description(),
		Location:           fac.Location(),
		Latitude:           fac.Latitude(),
		Longitude:          fac.Longitude(),
		Daycare:            fac.Daycare(),
		Boarding:           fac.Boarding(),
		Amenities:          fac.Amenities(),
		OperatingHours:     fac.OperatingHours(),
		ContactPhone:       fac.ContactPhone(),
		ContactEmail:       fac.ContactEmail(),
		Pricing:            fac.Pricing(),
		Capacity:           fac.Capacity(),
		EmergencyTransport: fac.EmergencyTransport(),
		CompletedBookings:  fac.CompletedBookings(),
		AvgRating:          fac.AvgRating(),
		DistanceKm:         distanceKm,
		CreatedAt:          fac.CreatedAt(),
	}
}
