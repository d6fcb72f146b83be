package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsitivelybooked/server/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T, checkIn, checkOut time.Time) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), checkIn, checkOut, 2, false, true, "two labradors")
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	checkIn := date(2026, time.March, 10)
	checkOut := date(2026, time.March, 14)

	b := newTestBooking(t, checkIn, checkOut)

	assert.Equal(t, StatusPending, b.Status())
	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Regexp(t, `^PB-[A-Z2-9]{6}$`, b.BookingCode())
	assert.Equal(t, 2, b.NumberOfDogs())
	assert.Equal(t, 4, b.TotalDays())
	assert.Equal(t, int64(1), b.Version())
}

func TestNewBookingValidation(t *testing.T) {
	checkIn := date(2026, time.March, 10)
	checkOut := date(2026, time.March, 14)

	tests := []struct {
		name string
		fn   func() (*Booking, error)
	}{
		{"missing user", func() (*Booking, error) {
			return NewBooking(uuid.Nil, uuid.New(), checkIn, checkOut, 1, true, false, "")
		}},
		{"missing facility", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.Nil, checkIn, checkOut, 1, true, false, "")
		}},
		{"check-out before check-in", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), checkOut, checkIn, 1, true, false, "")
		}},
		{"zero dogs", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), checkIn, checkOut, 0, true, false, "")
		}},
		{"no service selected", func() (*Booking, error) {
			return NewBooking(uuid.New(), uuid.New(), checkIn, checkOut, 1, false, false, "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
}

func TestUserActionTransitions(t *testing.T) {
	checkIn := date(2026, time.June, 1)
	checkOut := date(2026, time.June, 5)

	t.Run("accept then cancel", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.Accept())
		assert.Equal(t, StatusAccepted, b.Status())
		require.NoError(t, b.Cancel())
		assert.Equal(t, StatusCancelled, b.Status())
	})

	t.Run("decline", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.Decline())
		assert.Equal(t, StatusDeclined, b.Status())
	})

	t.Run("accept on terminal booking rejected", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.Decline())
		err := b.Accept()
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
		assert.Equal(t, StatusDeclined, b.Status())
	})

	t.Run("cancel after decline rejected", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.Decline())
		err := b.Cancel()
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	})
}

func TestSweepTransitions(t *testing.T) {
	checkIn := date(2026, time.June, 1)
	checkOut := date(2026, time.June, 5)

	t.Run("mark ongoing once check-in arrives", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.MarkOngoing(date(2026, time.June, 1)))
		assert.Equal(t, StatusOngoing, b.Status())
	})

	t.Run("mark ongoing before check-in rejected", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		err := b.MarkOngoing(date(2026, time.May, 31))
		require.Error(t, err)
		assert.Equal(t, StatusPending, b.Status())
	})

	t.Run("expire after check-out from accepted", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.Accept())
		require.NoError(t, b.Expire(date(2026, time.June, 5)))
		assert.Equal(t, StatusExpired, b.Status())
	})

	t.Run("expire before check-out rejected", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		err := b.Expire(date(2026, time.June, 4))
		require.Error(t, err)
		assert.Equal(t, StatusPending, b.Status())
	})

	t.Run("complete ongoing after check-out", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		require.NoError(t, b.MarkOngoing(date(2026, time.June, 1)))
		require.NoError(t, b.Complete(date(2026, time.June, 5)))
		assert.Equal(t, StatusCompleted, b.Status())
	})

	t.Run("complete from pending rejected", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		err := b.Complete(date(2026, time.June, 5))
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	})

	t.Run("sweep transitions stamp updatedAt from now", func(t *testing.T) {
		b := newTestBooking(t, checkIn, checkOut)
		now := date(2026, time.June, 2)
		require.NoError(t, b.MarkOngoing(now))
		assert.Equal(t, now, b.UpdatedAt())
	})
}

func TestIsIssuedBy(t *testing.T) {
	userID := uuid.New()
	b, err := NewBooking(userID, uuid.New(), date(2026, time.June, 1), date(2026, time.June, 2), 1, true, false, "")
	require.NoError(t, err)
	assert.True(t, b.IsIssuedBy(userID))
	assert.False(t, b.IsIssuedBy(uuid.New()))
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, time.June, 3, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2026, time.June, 3), DateOnly(ts))
}
