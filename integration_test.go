//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsitivelybooked/server/internal/events"
)

// TestSweep_CompletesElapsedStay verifies that a pending booking whose entire
// stay window has already passed is promoted to ongoing and then completed
// within a single sweep, incrementing the facility's completed counter and
// publishing both lifecycle events.
func TestSweep_CompletesElapsedStay(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	issuerID := seedUser(t, infra.DB, "dog_owner", "casey", "casey@integration.test")
	ownerID := seedUser(t, infra.DB, "facility_owner", "jordan", "jordan@integration.test")
	facilityID := seedFacility(t, infra.DB, ownerID, "Happy Tails Integration")

	now := time.Now().UTC()
	bookingID := seedBooking(t, infra.DB, issuerID, facilityID, "pending",
		now.AddDate(0, 0, -2), now.AddDate(0, 0, -1))

	result, err := stack.Lifecycle.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Ongoing)
	assert.Equal(t, 0, result.Expired)
	assert.Equal(t, 1, result.Completed)

	model := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "completed", model.Status)
	assert.Equal(t, int64(3), model.Version, "two transitions should bump the version twice")

	facility := fetchFacility(t, infra.DB, facilityID)
	assert.Equal(t, int64(1), facility.CompletedBookings)

	// Both lifecycle events should land on booking.events.
	started := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingStarted, 15*time.Second)
	completed := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingCompleted, 15*time.Second)

	var startedPayload, completedPayload events.BookingEvent
	require.NoError(t, started.ParseData(&startedPayload))
	require.NoError(t, completed.ParseData(&completedPayload))
	assert.Equal(t, bookingID, startedPayload.BookingID)
	assert.Equal(t, bookingID, completedPayload.BookingID)
	assert.Equal(t, "completed", completedPayload.Status)
	assert.Equal(t, facilityID, completedPayload.FacilityID)

	// A second sweep finds nothing to do and leaves the counter alone.
	again, err := stack.Lifecycle.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, again.Ongoing)
	assert.Zero(t, again.Expired)
	assert.Zero(t, again.Completed)
	assert.Equal(t, int64(1), fetchFacility(t, infra.DB, facilityID).CompletedBookings)
}

// TestSweep_LeavesUpcomingStayPending verifies that a booking whose check-in
// is still in the future survives a sweep untouched.
func TestSweep_LeavesUpcomingStayPending(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	issuerID := seedUser(t, infra.DB, "dog_owner", "casey", "casey@integration.test")
	ownerID := seedUser(t, infra.DB, "facility_owner", "jordan", "jordan@integration.test")
	facilityID := seedFacility(t, infra.DB, ownerID, "Happy Tails Integration")

	now := time.Now().UTC()
	bookingID := seedBooking(t, infra.DB, issuerID, facilityID, "pending",
		now.AddDate(0, 0, 5), now.AddDate(0, 0, 7))

	result, err := stack.Lifecycle.RunSweep(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, result.Ongoing)
	assert.Zero(t, result.Expired)
	assert.Zero(t, result.Completed)

	model := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "pending", model.Status)
	assert.Equal(t, int64(1), model.Version)
}

// TestAcceptBooking_EndToEnd drives the accept transition through the
// application service against real storage and asserts the persisted state
// and the published event.
func TestAcceptBooking_EndToEnd(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	issuerID := seedUser(t, infra.DB, "dog_owner", "casey", "casey@integration.test")
	ownerID := seedUser(t, infra.DB, "facility_owner", "jordan", "jordan@integration.test")
	facilityID := seedFacility(t, infra.DB, ownerID, "Happy Tails Integration")

	now := time.Now().UTC()
	bookingID := seedBooking(t, infra.DB, issuerID, facilityID, "pending",
		now.AddDate(0, 0, 5), now.AddDate(0, 0, 7))

	dto, err := stack.Bookings.AcceptBooking(context.Background(), ownerID, bookingID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", dto.Status)
	assert.Equal(t, int64(2), dto.Version)

	model := fetchBooking(t, infra.DB, bookingID)
	assert.Equal(t, "accepted", model.Status)
	assert.Equal(t, int64(2), model.Version)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingAccepted, 15*time.Second)

	var payload events.BookingEvent
	require.NoError(t, ce.ParseData(&payload))
	assert.Equal(t, bookingID, payload.BookingID)
	assert.Equal(t, issuerID, payload.UserID)
	assert.Equal(t, "accepted", payload.Status)
}
