package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/domain"
	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/notification"
)

const eventSource = "pawsitivelybooked-server"

// EventPublisher publishes lifecycle events to the message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	FacilityID   uuid.UUID `json:"facility_id" binding:"required"`
	CheckIn      time.Time `json:"check_in" binding:"required" time_format:"2006-01-02"`
	CheckOut     time.Time `json:"check_out" binding:"required" time_format:"2006-01-02"`
	NumberOfDogs int       `json:"number_of_dogs" binding:"required"`
	Daycare      bool      `json:"daycare"`
	Boarding     bool      `json:"boarding"`
	Notes        string    `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID           uuid.UUID `json:"id"`
	BookingCode  string    `json:"booking_code"`
	IssuedBy     uuid.UUID `json:"issued_by"`
	FacilityID   uuid.UUID `json:"facility_id"`
	Status       string    `json:"status"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	NumberOfDogs int       `json:"number_of_dogs"`
	Daycare      bool      `json:"daycare"`
	Boarding     bool      `json:"boarding"`
	Notes        string    `json:"notes,omitempty"`
	TotalDays    int       `json:"total_days"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DashboardDTO partitions a party's bookings by where they sit in the
// lifecycle.
type DashboardDTO struct {
	Pending  []BookingDTO `json:"pending"`
	Upcoming []BookingDTO `json:"upcoming"`
	Ongoing  []BookingDTO `json:"ongoing"`
	Past     []BookingDTO `json:"past"`
}

// BookingService is the application service orchestrating booking use cases.
// Every mutating operation takes the acting user explicitly and authorizes
// it against the aggregate before transitioning.
type BookingService struct {
	bookings   bookingDomain.Repository
	facilities facilityDomain.Repository
	users      userDomain.Repository
	mailer     notification.Sender
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	facilities facilityDomain.Repository,
	users userDomain.Repository,
	mailer notification.Sender,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		facilities: facilities,
		users:      users,
		mailer:     mailer,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateBooking creates a new pending booking issued by the given user.
func (s *BookingService) CreateBooking(ctx context.Context, issuerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	fac, err := s.facilities.FindByID(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	if req.Daycare && !fac.Daycare() {
		return nil, domain.NewValidationError(fmt.Sprintf("%s does not offer daycare", fac.Name()))
	}
	if req.Boarding && !fac.Boarding() {
		return nil, domain.NewValidationError(fmt.Sprintf("%s does not offer boarding", fac.Name()))
	}

	bk, err := bookingDomain.NewBooking(
		issuerID,
		req.FacilityID,
		req.CheckIn,
		req.CheckOut,
		req.NumberOfDogs,
		req.Daycare,
		req.Boarding,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.notifyParties(ctx, bk, fac, notification.BookingCreated)
	s.publishBookingEvent(ctx, events.BookingRequested, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// AcceptBooking confirms a pending booking. Only the owner of the target
// facility may accept.
func (s *BookingService) AcceptBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.facilityTransition(ctx, actorID, bookingID,
		(*bookingDomain.Booking).Accept, notification.BookingAccepted, events.BookingAccepted)
}

// DeclineBooking rejects a pending booking. Only the owner of the target
// facility may decline.
func (s *BookingService) DeclineBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.facilityTransition(ctx, actorID, bookingID,
		(*bookingDomain.Booking).Decline, notification.BookingDeclined, events.BookingDeclined)
}

func (s *BookingService) facilityTransition(
	ctx context.Context,
	actorID, bookingID uuid.UUID,
	transition func(*bookingDomain.Booking) error,
	templates func(notification.BookingDetails) []notification.Message,
	eventType string,
) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	fac, err := s.facilities.FindByID(ctx, bk.FacilityID())
	if err != nil {
		return nil, err
	}
	if !fac.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("booking does not target a facility owned by this user")
	}

	if err := transition(bk); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.notifyParties(ctx, bk, fac, templates)
	s.publishBookingEvent(ctx, eventType, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking that has not started yet. Only the issuing
// user may cancel.
func (s *BookingService) CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsIssuedBy(actorID) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	fac, err := s.facilities.FindByID(ctx, bk.FacilityID())
	if err == nil {
		s.notifyParties(ctx, bk, fac, notification.BookingCancelled)
	}
	s.publishBookingEvent(ctx, events.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// DeleteBookingHistory permanently removes a terminal booking from the
// issuing user's history. Live bookings cannot be deleted.
func (s *BookingService) DeleteBookingHistory(ctx context.Context, actorID, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !bk.IsIssuedBy(actorID) {
		return domain.NewForbiddenError("booking does not belong to this user")
	}
	if !bk.Status().IsTerminal() {
		return domain.NewValidationError("only declined, completed, cancelled or expired bookings can be deleted")
	}
	return s.bookings.Delete(ctx, bookingID)
}

// GetBooking retrieves a single booking visible to the acting user. The
// issuer and the target facility's owner can both view it.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsIssuedBy(actorID) {
		fac, err := s.facilities.FindByID(ctx, bk.FacilityID())
		if err != nil || !fac.IsOwnedBy(actorID) {
			return nil, domain.NewForbiddenError("booking is not visible to this user")
		}
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves paginated bookings issued by a user, optionally
// filtered by status.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, statuses []bookingDomain.BookingStatus, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByIssuer(ctx, userID, statuses, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetFacilityBookings retrieves paginated bookings targeting a facility,
// optionally filtered by status. Only the facility's owner may list them.
func (s *BookingService) GetFacilityBookings(ctx context.Context, actorID, facilityID uuid.UUID, statuses []bookingDomain.BookingStatus, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	fac, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !fac.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("facility does not belong to this user")
	}

	bookings, total, err := s.bookings.FindByFacility(ctx, facilityID, statuses, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetUserDashboard partitions the user's bookings by lifecycle stage.
func (s *BookingService) GetUserDashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error) {
	return s.dashboard(func(statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
		bookings, _, err := s.bookings.FindByIssuer(ctx, userID, statuses, 1, dashboardLimit)
		return bookings, err
	})
}

// GetFacilityDashboard partitions a facility's bookings by lifecycle stage.
// Only the facility's owner may view it.
func (s *BookingService) GetFacilityDashboard(ctx context.Context, actorID, facilityID uuid.UUID) (*DashboardDTO, error) {
	fac, err := s.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !fac.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("facility does not belong to this user")
	}

	return s.dashboard(func(statuses []bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
		bookings, _, err := s.bookings.FindByFacility(ctx, facilityID, statuses, 1, dashboardLimit)
		return bookings, err
	})
}

const dashboardLimit = 100

func (s *BookingService) dashboard(fetch func([]bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error)) (*DashboardDTO, error) {
	pending, err := fetch([]bookingDomain.BookingStatus{bookingDomain.StatusPending})
	if err != nil {
		return nil, err
	}
	upcoming, err := fetch([]bookingDomain.BookingStatus{bookingDomain.StatusAccepted})
	if err != nil {
		return nil, err
	}
	ongoing, err := fetch([]bookingDomain.BookingStatus{bookingDomain.StatusOngoing})
	if err != nil {
		return nil, err
	}
	past, err := fetch(bookingDomain.TerminalStatuses())
	if err != nil {
		return nil, err
	}

	return &DashboardDTO{
		Pending:  toBookingDTOs(pending),
		Upcoming: toBookingDTOs(upcoming),
		Ongoing:  toBookingDTOs(ongoing),
		Past:     toBookingDTOs(past),
	}, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:           bk.ID(),
		BookingCode:  bk.BookingCode(),
		IssuedBy:     bk.IssuedBy(),
		FacilityID:   bk.FacilityID(),
		Status:       string(bk.Status()),
		CheckIn:      bk.CheckIn(),
		CheckOut:     bk.CheckOut(),
		NumberOfDogs: bk.NumberOfDogs(),
		Daycare:      bk.Daycare(),
		Boarding:     bk.Boarding(),
		Notes:        bk.Notes(),
		TotalDays:    bk.TotalDays(),
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) notifyParties(
	ctx context.Context,
	bk *bookingDomain.Booking,
	fac *facilityDomain.Facility,
	templates func(notification.BookingDetails) []notification.Message,
) {
	details, err := buildBookingDetails(ctx, s.users, bk, fac)
	if err != nil {
		s.logger.Warn("skipping booking notification",
			zap.String("booking_code", bk.BookingCode()),
			zap.Error(err),
		)
		return
	}

	for _, msg := range templates(details) {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("failed to send booking notification",
				zap.String("booking_code", bk.BookingCode()),
				zap.String("to", msg.To),
				zap.Error(err),
			)
		}
	}
}

func buildBookingDetails(ctx context.Context, users userDomain.Repository, bk *bookingDomain.Booking, fac *facilityDomain.Facility) (notification.BookingDetails, error) {
	issuer, err := users.FindByID(ctx, bk.IssuedBy())
	if err != nil {
		return notification.BookingDetails{}, err
	}

	ownerFirstName := ""
	if owner, err := users.FindByID(ctx, fac.OwnerID()); err == nil {
		ownerFirstName = owner.FirstName()
	}

	return notification.BookingDetails{
		BookingCode:    bk.BookingCode(),
		UserFirstName:  issuer.FirstName(),
		UserEmail:      issuer.Email(),
		OwnerFirstName: ownerFirstName,
		FacilityName:   fac.Name(),
		FacilityEmail:  fac.ContactEmail(),
		CheckIn:        bk.CheckIn(),
		CheckOut:       bk.CheckOut(),
		NumberOfDogs:   bk.NumberOfDogs(),
		TotalDays:      bk.TotalDays(),
	}, nil
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	if s.publisher == nil {
		return
	}

	evt := events.BookingEvent{
		BookingID:    bk.ID(),
		BookingCode:  bk.BookingCode(),
		UserID:       bk.IssuedBy(),
		FacilityID:   bk.FacilityID(),
		Status:       string(bk.Status()),
		CheckIn:      bk.CheckIn(),
		CheckOut:     bk.CheckOut(),
		NumberOfDogs: bk.NumberOfDogs(),
		OccurredAt:   time.Now().UTC(),
	}

	cloudEvent, err := events.NewCloudEvent(eventSource, eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, bk.ID().String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
