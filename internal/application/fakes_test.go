package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawsitivelybooked/server/internal/domain"
	bookingDomain "github.com/pawsitivelybooked/server/internal/domain/booking"
	facilityDomain "github.com/pawsitivelybooked/server/internal/domain/facility"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/notification"
)

// --- bookings ---

type fakeBookingRepo struct {
	bookings  map[uuid.UUID]*bookingDomain.Booking
	updateErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByIssuer(_ context.Context, userID uuid.UUID, statuses []bookingDomain.BookingStatus, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.IssuedBy() == userID && matchesStatus(bk, statuses) {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByFacility(_ context.Context, facilityID uuid.UUID, statuses []bookingDomain.BookingStatus, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.FacilityID() == facilityID && matchesStatus(bk, statuses) {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError("Booking", id.String())
	}
	delete(r.bookings, id)
	return nil
}

func matchesStatus(bk *bookingDomain.Booking, statuses []bookingDomain.BookingStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if bk.Status() == st {
			return true
		}
	}
	return false
}

func cloneBooking(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.Reconstruct(
		bk.ID(), bk.BookingCode(), bk.IssuedBy(), bk.FacilityID(), bk.Status(),
		bk.CheckIn(), bk.CheckOut(), bk.NumberOfDogs(), bk.Daycare(), bk.Boarding(),
		bk.Notes(), bk.Version(), bk.CreatedAt(), bk.UpdatedAt(),
	)
}

// --- sweep store ---

// fakeSweepStore runs sweep transactions against a fakeBookingRepo, rolling
// the whole store back when the transaction function fails.
type fakeSweepStore struct {
	repo         *fakeBookingRepo
	counters     map[uuid.UUID]int64
	conflicts    map[uuid.UUID]int
	incrementErr error
}

func newFakeSweepStore(repo *fakeBookingRepo) *fakeSweepStore {
	return &fakeSweepStore{
		repo:      repo,
		counters:  make(map[uuid.UUID]int64),
		conflicts: make(map[uuid.UUID]int),
	}
}

func (s *fakeSweepStore) InTransaction(_ context.Context, fn func(tx bookingDomain.SweepTx) error) error {
	snapshot := make(map[uuid.UUID]*bookingDomain.Booking, len(s.repo.bookings))
	for id, bk := range s.repo.bookings {
		snapshot[id] = cloneBooking(bk)
	}
	counters := make(map[uuid.UUID]int64, len(s.counters))
	for id, c := range s.counters {
		counters[id] = c
	}

	if err := fn(s); err != nil {
		s.repo.bookings = snapshot
		s.counters = counters
		return err
	}
	return nil
}

func (s *fakeSweepStore) DueForOngoing(now time.Time) ([]*bookingDomain.Booking, error) {
	return s.due(now, (*bookingDomain.Booking).CheckIn, bookingDomain.StatusPending, bookingDomain.StatusAccepted), nil
}

func (s *fakeSweepStore) DueForExpiry(now time.Time) ([]*bookingDomain.Booking, error) {
	return s.due(now, (*bookingDomain.Booking).CheckOut, bookingDomain.StatusPending, bookingDomain.StatusAccepted), nil
}

func (s *fakeSweepStore) DueForCompletion(now time.Time) ([]*bookingDomain.Booking, error) {
	return s.due(now, (*bookingDomain.Booking).CheckOut, bookingDomain.StatusOngoing), nil
}

func (s *fakeSweepStore) due(now time.Time, boundOf func(*bookingDomain.Booking) time.Time, statuses ...bookingDomain.BookingStatus) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range s.repo.bookings {
		if !matchesStatus(bk, statuses) {
			continue
		}
		if bookingDomain.DateOnly(now).Before(bookingDomain.DateOnly(boundOf(bk))) {
			continue
		}
		// Copies, so an update that loses its version race leaves the
		// stored row untouched.
		out = append(out, cloneBooking(bk))
	}
	return out
}

func (s *fakeSweepStore) Update(bk *bookingDomain.Booking) error {
	if s.conflicts[bk.ID()] > 0 {
		s.conflicts[bk.ID()]--
		return domain.NewConflictError("booking was modified by another transaction")
	}
	s.repo.bookings[bk.ID()] = bk
	return nil
}

func (s *fakeSweepStore) IncrementCompletedBookings(facilityID uuid.UUID) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.counters[facilityID]++
	return nil
}

// --- facilities ---

type fakeFacilityRepo struct {
	facilities map[uuid.UUID]*facilityDomain.Facility
	photos     map[uuid.UUID][]*facilityDomain.Photo
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{
		facilities: make(map[uuid.UUID]*facilityDomain.Facility),
		photos:     make(map[uuid.UUID][]*facilityDomain.Photo),
	}
}

func (r *fakeFacilityRepo) FindByID(_ context.Context, id uuid.UUID) (*facilityDomain.Facility, error) {
	fac, ok := r.facilities[id]
	if !ok {
		return nil, domain.NewNotFoundError("Facility", id.String())
	}
	return fac, nil
}

func (r *fakeFacilityRepo) FindByName(_ context.Context, name string) (*facilityDomain.Facility, error) {
	for _, fac := range r.facilities {
		if fac.Name() == name {
			return fac, nil
		}
	}
	return nil, domain.NewNotFoundError("Facility", name)
}

func (r *fakeFacilityRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*facilityDomain.Facility, error) {
	var out []*facilityDomain.Facility
	for _, fac := range r.facilities {
		if fac.IsOwnedBy(ownerID) {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (r *fakeFacilityRepo) ListAll(_ context.Context, _, _ int) ([]*facilityDomain.Facility, int64, error) {
	var out []*facilityDomain.Facility
	for _, fac := range r.facilities {
		out = append(out, fac)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFacilityRepo) Save(_ context.Context, fac *facilityDomain.Facility) error {
	r.facilities[fac.ID()] = fac
	return nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, fac *facilityDomain.Facility) error {
	r.facilities[fac.ID()] = fac
	return nil
}

func (r *fakeFacilityRepo) AddPhoto(_ context.Context, p *facilityDomain.Photo) error {
	r.photos[p.FacilityID] = append(r.photos[p.FacilityID], p)
	return nil
}

func (r *fakeFacilityRepo) Photos(_ context.Context, facilityID uuid.UUID) ([]*facilityDomain.Photo, error) {
	return r.photos[facilityID], nil
}

// --- users ---

type fakeUserRepo struct {
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	usr, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return usr, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	for _, usr := range r.users {
		if usr.Email() == email {
			return usr, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*userDomain.User, error) {
	for _, usr := range r.users {
		if usr.Username() == username {
			return usr, nil
		}
	}
	return nil, domain.NewNotFoundError("User", username)
}

func (r *fakeUserRepo) Save(_ context.Context, usr *userDomain.User) error {
	r.users[usr.ID()] = usr
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, usr *userDomain.User) error {
	r.users[usr.ID()] = usr
	return nil
}

// --- notification and events recorders ---

type recorderSender struct {
	sent []notification.Message
	err  error
}

func (s *recorderSender) Send(msg notification.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type recordedEvent struct {
	topic string
	key   string
	event events.CloudEvent
}

type recorderPublisher struct {
	published []recordedEvent
}

func (p *recorderPublisher) PublishEvent(_ context.Context, topic, key string, event events.CloudEvent) error {
	p.published = append(p.published, recordedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recorderPublisher) typesPublished() []string {
	types := make([]string, len(p.published))
	for i, pe := range p.published {
		types[i] = pe.event.Type
	}
	return types
}

// --- builders ---

func newTestUser(role userDomain.Role, username, email string) *userDomain.User {
	now := time.Now().UTC()
	return userDomain.Reconstruct(
		uuid.New(), role, username, "Test", "User", email, "x", "", "", 0, 0, "", "", now, now,
	)
}

func newTestFacility(ownerID uuid.UUID, name string, daycare, boarding bool) *facilityDomain.Facility {
	now := time.Now().UTC()
	email := strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "@facilities.test"
	return facilityDomain.Reconstruct(
		uuid.New(), ownerID, name, "", "12 Bark Lane", 3.139, 101.6869,
		daycare, boarding, "", "", "", email, "", 10, false,
		0, 0, 1, now, now,
	)
}
