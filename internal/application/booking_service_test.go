package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/domain"
	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/events"
)

type bookingFixture struct {
	bookings   *fakeBookingRepo
	facilities *fakeFacilityRepo
	users      *fakeUserRepo
	sender     *recorderSender
	publisher  *recorderPublisher

	issuer   *userDomain.User
	owner    *userDomain.User
	facility *facilityDomain.Facility
}

func newBookingFixture(t *testing.T) (*BookingService, *bookingFixture) {
	t.Helper()
	fx := &bookingFixture{
		bookings:   newFakeBookingRepo(),
		facilities: newFakeFacilityRepo(),
		users:      newFakeUserRepo(),
		sender:     &recorderSender{},
		publisher:  &recorderPublisher{},
	}

	fx.issuer = newTestUser(userDomain.RoleDogOwner, "casey", "casey@example.test")
	fx.owner = newTestUser(userDomain.RoleFacilityOwner, "jordan", "jordan@example.test")
	fx.facility = newTestFacility(fx.owner.ID(), "Happy Tails", true, true)
	require.NoError(t, fx.users.Save(context.Background(), fx.issuer))
	require.NoError(t, fx.users.Save(context.Background(), fx.owner))
	require.NoError(t, fx.facilities.Save(context.Background(), fx.facility))

	svc := NewBookingService(fx.bookings, fx.facilities, fx.users, fx.sender, fx.publisher, zap.NewNop())
	return svc, fx
}

func (fx *bookingFixture) createRequest() CreateBookingRequest {
	return CreateBookingRequest{
		FacilityID:   fx.facility.ID(),
		CheckIn:      day(5),
		CheckOut:     day(7),
		NumberOfDogs: 2,
		Daycare:      true,
		Boarding:     true,
		Notes:        "two huskies",
	}
}

func (fx *bookingFixture) seedPending(t *testing.T) *bookingDomain.Booking {
	t.Helper()
	now := time.Now().UTC()
	bk := bookingDomain.Reconstruct(
		uuid.New(), "PB-SEED01", fx.issuer.ID(), fx.facility.ID(), bookingDomain.StatusPending,
		day(5), day(7), 2, true, true, "", 1, now, now,
	)
	require.NoError(t, fx.bookings.Save(context.Background(), bk))
	return bk
}

func TestCreateBooking(t *testing.T) {
	svc, fx := newBookingFixture(t)

	dto, err := svc.CreateBooking(context.Background(), fx.issuer.ID(), fx.createRequest())
	require.NoError(t, err)

	assert.Equal(t, string(bookingDomain.StatusPending), dto.Status)
	assert.NotEmpty(t, dto.BookingCode)
	assert.Equal(t, 2, dto.TotalDays)

	require.Len(t, fx.sender.sent, 2)
	assert.Equal(t, "casey@example.test", fx.sender.sent[0].To)
	assert.Equal(t, "happy-tails@facilities.test", fx.sender.sent[1].To)

	require.Len(t, fx.publisher.published, 1)
	assert.Equal(t, events.BookingRequested, fx.publisher.published[0].event.Type)
	assert.Equal(t, events.TopicBookingEvents, fx.publisher.published[0].topic)
}

func TestCreateBookingUnknownFacility(t *testing.T) {
	svc, fx := newBookingFixture(t)

	req := fx.createRequest()
	req.FacilityID = uuid.New()
	_, err := svc.CreateBooking(context.Background(), fx.issuer.ID(), req)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestCreateBookingRejectsUnofferedService(t *testing.T) {
	svc, fx := newBookingFixture(t)
	daycareOnly := newTestFacility(fx.owner.ID(), "Day Camp", true, false)
	require.NoError(t, fx.facilities.Save(context.Background(), daycareOnly))

	req := fx.createRequest()
	req.FacilityID = daycareOnly.ID()
	req.Boarding = true
	_, err := svc.CreateBooking(context.Background(), fx.issuer.ID(), req)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestAcceptBookingByFacilityOwner(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	dto, err := svc.AcceptBooking(context.Background(), fx.owner.ID(), bk.ID())
	require.NoError(t, err)

	assert.Equal(t, string(bookingDomain.StatusAccepted), dto.Status)
	assert.Equal(t, int64(2), dto.Version)

	require.Len(t, fx.sender.sent, 2)
	assert.Contains(t, fx.sender.sent[0].Subject, "Confirmed")
	require.Len(t, fx.publisher.published, 1)
	assert.Equal(t, events.BookingAccepted, fx.publisher.published[0].event.Type)
}

func TestAcceptBookingForbiddenForNonOwner(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	_, err := svc.AcceptBooking(context.Background(), fx.issuer.ID(), bk.ID())
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
	assert.Equal(t, bookingDomain.StatusPending, fx.bookings.bookings[bk.ID()].Status())
	assert.Empty(t, fx.sender.sent)
}

func TestAcceptBookingTwiceIsRejected(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	_, err := svc.AcceptBooking(context.Background(), fx.owner.ID(), bk.ID())
	require.NoError(t, err)

	_, err = svc.AcceptBooking(context.Background(), fx.owner.ID(), bk.ID())
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	assert.Len(t, fx.sender.sent, 2, "repeat accept must not notify again")
}

func TestDeclineBooking(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	dto, err := svc.DeclineBooking(context.Background(), fx.owner.ID(), bk.ID())
	require.NoError(t, err)

	assert.Equal(t, string(bookingDomain.StatusDeclined), dto.Status)
	require.Len(t, fx.sender.sent, 2)
	assert.Contains(t, fx.sender.sent[0].Subject, "Declined")
}

func TestCancelBookingByIssuer(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	dto, err := svc.CancelBooking(context.Background(), fx.issuer.ID(), bk.ID())
	require.NoError(t, err)

	assert.Equal(t, string(bookingDomain.StatusCancelled), dto.Status)
	require.Len(t, fx.publisher.published, 1)
	assert.Equal(t, events.BookingCancelled, fx.publisher.published[0].event.Type)
}

func TestCancelBookingForbiddenForFacilityOwner(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	_, err := svc.CancelBooking(context.Background(), fx.owner.ID(), bk.ID())
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestCancelAfterAcceptStillAllowed(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	_, err := svc.AcceptBooking(context.Background(), fx.owner.ID(), bk.ID())
	require.NoError(t, err)

	dto, err := svc.CancelBooking(context.Background(), fx.issuer.ID(), bk.ID())
	require.NoError(t, err)
	assert.Equal(t, string(bookingDomain.StatusCancelled), dto.Status)
}

func TestDeleteBookingHistory(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	// Live bookings cannot be removed.
	err := svc.DeleteBookingHistory(context.Background(), fx.issuer.ID(), bk.ID())
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = svc.CancelBooking(context.Background(), fx.issuer.ID(), bk.ID())
	require.NoError(t, err)

	// Only the issuer may clear their history.
	err = svc.DeleteBookingHistory(context.Background(), fx.owner.ID(), bk.ID())
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	require.NoError(t, svc.DeleteBookingHistory(context.Background(), fx.issuer.ID(), bk.ID()))
	_, err = svc.GetBooking(context.Background(), fx.issuer.ID(), bk.ID())
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestGetBookingVisibility(t *testing.T) {
	svc, fx := newBookingFixture(t)
	bk := fx.seedPending(t)

	_, err := svc.GetBooking(context.Background(), fx.issuer.ID(), bk.ID())
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), fx.owner.ID(), bk.ID())
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), uuid.New(), bk.ID())
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}

func TestGetUserDashboardPartitions(t *testing.T) {
	svc, fx := newBookingFixture(t)

	pending := fx.seedPending(t)
	accepted := fx.seedPending(t)
	_, err := svc.AcceptBooking(context.Background(), fx.owner.ID(), accepted.ID())
	require.NoError(t, err)
	cancelled := fx.seedPending(t)
	_, err = svc.CancelBooking(context.Background(), fx.issuer.ID(), cancelled.ID())
	require.NoError(t, err)

	dash, err := svc.GetUserDashboard(context.Background(), fx.issuer.ID())
	require.NoError(t, err)

	require.Len(t, dash.Pending, 1)
	assert.Equal(t, pending.ID(), dash.Pending[0].ID)
	require.Len(t, dash.Upcoming, 1)
	assert.Equal(t, accepted.ID(), dash.Upcoming[0].ID)
	assert.Empty(t, dash.Ongoing)
	require.Len(t, dash.Past, 1)
	assert.Equal(t, cancelled.ID(), dash.Past[0].ID)
}

func TestGetBookingStats(t *testing.T) {
	svc, fx := newBookingFixture(t)
	fx.seedPending(t)
	bk := fx.seedPending(t)
	_, err := svc.DeclineBooking(context.Background(), fx.owner.ID(), bk.ID())
	require.NoError(t, err)

	stats, err := svc.GetBookingStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus[string(bookingDomain.StatusPending)])
	assert.Equal(t, int64(1), stats.ByStatus[string(bookingDomain.StatusDeclined)])
}
