package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/domain"
	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/notification"
)

// SweepResult reports how many bookings each pass of a sweep transitioned.
// Skipped counts bookings left untouched because a concurrent user action
// committed first.
type SweepResult struct {
	Ongoing   int `json:"ongoing"`
	Expired   int `json:"expired"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
}

// LifecycleService advances time-dependent booking state. All three passes of
// a sweep run inside one transaction: either the whole sweep commits or none
// of it does, and the next invocation retries from scratch.
//
// Pass ordering is deliberate: arrived stays are promoted to ongoing before
// the expiry pass runs, so a booking whose entire window is already in the
// past moves pending -> ongoing -> completed within a single sweep rather
// than expiring. Setting expireElapsed reverses that for never-started stays
// whose check-out has passed: they skip the ongoing promotion and expire
// instead.
type LifecycleService struct {
	store         bookingDomain.SweepStore
	facilities    facilityDomain.Repository
	users         userDomain.Repository
	mailer        notification.Sender
	publisher     EventPublisher
	expireElapsed bool
	logger        *zap.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	store bookingDomain.SweepStore,
	facilities facilityDomain.Repository,
	users userDomain.Repository,
	mailer notification.Sender,
	publisher EventPublisher,
	expireElapsed bool,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		store:         store,
		facilities:    facilities,
		users:         users,
		mailer:        mailer,
		publisher:     publisher,
		expireElapsed: expireElapsed,
		logger:        logger,
	}
}

type sweptBooking struct {
	eventType string
	booking   *bookingDomain.Booking
}

// RunSweep advances every booking whose dates make a transition due, as of
// now. Notifications and events are dispatched only after the transaction
// commits; both are best-effort and never fail the sweep.
func (s *LifecycleService) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	var (
		result SweepResult
		swept  []sweptBooking
	)

	err := s.store.InTransaction(ctx, func(tx bookingDomain.SweepTx) error {
		result = SweepResult{}
		swept = swept[:0]

		// Pass 1: promote arrived stays to ongoing.
		due, err := tx.DueForOngoing(now)
		if err != nil {
			return err
		}
		for _, bk := range due {
			if s.expireElapsed && !bookingDomain.DateOnly(now).Before(bookingDomain.DateOnly(bk.CheckOut())) {
				// The whole window is past; leave it for the expiry pass.
				continue
			}
			if err := bk.MarkOngoing(now); err != nil {
				return err
			}
			if ok, err := s.commit(tx, bk, &result); err != nil {
				return err
			} else if ok {
				result.Ongoing++
				swept = append(swept, sweptBooking{events.BookingStarted, bk})
			}
		}

		// Pass 2: expire never-started stays whose window has passed.
		due, err = tx.DueForExpiry(now)
		if err != nil {
			return err
		}
		for _, bk := range due {
			if err := bk.Expire(now); err != nil {
				return err
			}
			if ok, err := s.commit(tx, bk, &result); err != nil {
				return err
			} else if ok {
				result.Expired++
				swept = append(swept, sweptBooking{events.BookingExpired, bk})
			}
		}

		// Pass 3: complete ongoing stays past their check-out. Runs after
		// pass 1 so bookings promoted this sweep are included.
		due, err = tx.DueForCompletion(now)
		if err != nil {
			return err
		}
		for _, bk := range due {
			if err := bk.Complete(now); err != nil {
				return err
			}
			ok, err := s.commit(tx, bk, &result)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := tx.IncrementCompletedBookings(bk.FacilityID()); err != nil {
				return err
			}
			result.Completed++
			swept = append(swept, sweptBooking{events.BookingCompleted, bk})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sb := range swept {
		if sb.eventType == events.BookingCompleted {
			s.notifyCompletion(ctx, sb.booking)
		}
		s.publishBookingEvent(ctx, sb.eventType, sb.booking)
	}

	s.logger.Info("lifecycle sweep finished",
		zap.Time("now", now),
		zap.Int("ongoing", result.Ongoing),
		zap.Int("expired", result.Expired),
		zap.Int("completed", result.Completed),
		zap.Int("skipped", result.Skipped),
	)
	return &result, nil
}

// commit persists a transitioned booking. A version conflict means a user
// action won the race; the booking is skipped, not failed.
func (s *LifecycleService) commit(tx bookingDomain.SweepTx, bk *bookingDomain.Booking, result *SweepResult) (bool, error) {
	bk.IncrementVersion()
	if err := tx.Update(bk); err != nil {
		if domain.IsConflict(err) {
			result.Skipped++
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Start runs the sweep on a fixed interval until ctx is cancelled.
func (s *LifecycleService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("lifecycle sweep scheduled", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("lifecycle sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.RunSweep(ctx, time.Now().UTC()); err != nil {
				s.logger.Error("lifecycle sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *LifecycleService) notifyCompletion(ctx context.Context, bk *bookingDomain.Booking) {
	fac, err := s.facilities.FindByID(ctx, bk.FacilityID())
	if err != nil {
		s.logger.Warn("skipping completion notification",
			zap.String("booking_code", bk.BookingCode()),
			zap.Error(err),
		)
		return
	}

	details, err := buildBookingDetails(ctx, s.users, bk, fac)
	if err != nil {
		s.logger.Warn("skipping completion notification",
			zap.String("booking_code", bk.BookingCode()),
			zap.Error(err),
		)
		return
	}

	for _, msg := range notification.BookingCompleted(details) {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("failed to send completion notification",
				zap.String("booking_code", bk.BookingCode()),
				zap.String("to", msg.To),
				zap.Error(err),
			)
		}
	}
}

func (s *LifecycleService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
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
