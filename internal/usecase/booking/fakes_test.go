package booking

import (
	"context"
	"sync"
	"time"

	"github.com/supermarios77/Linglix-sub002/internal/audit"
	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
	"github.com/supermarios77/Linglix-sub002/internal/httperr"
	"github.com/supermarios77/Linglix-sub002/internal/models"
	"github.com/supermarios77/Linglix-sub002/internal/notification"
	"github.com/supermarios77/Linglix-sub002/internal/payment"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

// fakeRepo serializes access with a mutex the way the real implementation
// serializes with the advisory lock, so tests can race goroutines at it.
type fakeRepo struct {
	mu sync.Mutex

	users    map[uint]*models.User
	profiles map[uint]*models.TutorProfile
	slots    map[uint][]models.AvailabilitySlot
	bookings map[uint]*models.Booking
	nextID   uint

	createErr error
	deleteErr error
	deleted   []uint
	updates   int
	expired   []models.Booking
}

var _ domain.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    map[uint]*models.User{},
		profiles: map[uint]*models.TutorProfile{},
		slots:    map[uint][]models.AvailabilitySlot{},
		bookings: map[uint]*models.Booking{},
	}
}

func (r *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetTutorProfile(_ context.Context, id uint) (*models.TutorProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "tutor not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetTutorProfileByUser(_ context.Context, userID uint) (*models.TutorProfile, error) {
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "tutor not found")
}

func (r *fakeRepo) ListActiveSlots(_ context.Context, tutorProfileID uint) ([]models.AvailabilitySlot, error) {
	return r.slots[tutorProfileID], nil
}

func (r *fakeRepo) activeBookings(tutorProfileID uint) []models.Booking {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TutorProfileID == tutorProfileID && !domain.IsInactive(domain.Status(b.Status)) {
			out = append(out, *b)
		}
	}
	return out
}

func (r *fakeRepo) ListActiveBookings(_ context.Context, tutorProfileID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeBookings(tutorProfileID), nil
}

func (r *fakeRepo) CreateBookingLocked(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if domain.FindConflict(b.ScheduledAt, b.DurationMin, r.activeBookings(b.TutorProfileID)) != nil {
		return httperr.ErrBusinessf(httperr.CodeTimeConflict, "slot already taken")
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) RescheduleLocked(_ context.Context, b *models.Booking, newStart time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var others []models.Booking
	for _, e := range r.activeBookings(b.TutorProfileID) {
		if e.ID != b.ID {
			others = append(others, e)
		}
	}
	if domain.FindConflict(newStart, b.DurationMin, others) != nil {
		return httperr.ErrBusinessf(httperr.CodeTimeConflict, "slot already taken")
	}
	b.ScheduledAt = newStart
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "booking not found")
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates++
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteBooking(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.bookings, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRepo) ListBookingsForStudent(_ context.Context, studentID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.StudentID == studentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBookingsForTutor(_ context.Context, tutorProfileID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TutorProfileID == tutorProfileID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListExpiredPending(_ context.Context, _ time.Time, limit int) ([]models.Booking, error) {
	if len(r.expired) > limit {
		return r.expired[:limit], nil
	}
	return r.expired, nil
}

// ======================================================
// FAKE PENALTY POLICY
// ======================================================

type fakePolicy struct {
	penalized bool
	err       error
	recorded  []uint
}

var _ domain.PenaltyPolicy = (*fakePolicy)(nil)

func (p *fakePolicy) IsPenalized(_ context.Context, _ uint, _ time.Time) (bool, error) {
	return p.penalized, p.err
}

func (p *fakePolicy) RecordLateCancellation(_ context.Context, studentID uint, _ time.Time) error {
	p.recorded = append(p.recorded, studentID)
	return nil
}

// ======================================================
// FAKE GATEWAY
// ======================================================

type fakeGateway struct {
	session    *payment.CheckoutSession
	sessionErr error
	checkouts  []payment.CheckoutInput

	payments map[string]*payment.Payment
	// getFails makes the first N GetPayment calls return getErr.
	getFails int
	getErr   error
	getCalls int

	refundID string
	// refundFails makes the first N CreateRefund calls return refundErr.
	refundFails int
	refundErr   error
	refundCalls int
	refundKeys  []string
}

var _ payment.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, in payment.CheckoutInput) (*payment.CheckoutSession, error) {
	g.checkouts = append(g.checkouts, in)
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	if g.session != nil {
		return g.session, nil
	}
	return &payment.CheckoutSession{ID: "sess-1", URL: "https://pay.example/sess-1"}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, paymentID string) (*payment.Payment, error) {
	g.getCalls++
	if g.getErr != nil && g.getCalls <= g.getFails {
		return nil, g.getErr
	}
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (g *fakeGateway) CreateRefund(_ context.Context, _ string, _ float64, key string) (string, error) {
	g.refundCalls++
	g.refundKeys = append(g.refundKeys, key)
	if g.refundCalls <= g.refundFails {
		return "", g.refundErr
	}
	if g.refundID != "" {
		return g.refundID, nil
	}
	return "ref-1", nil
}

// ======================================================
// AMBIENT NO-OPS
// ======================================================

type nopRecorder struct{}

func (nopRecorder) Log(_ *uint, _, _ string, _ *uint, _ any) error { return nil }

func testAudit() *audit.Dispatcher {
	return audit.NewDispatcher(nopRecorder{})
}

func testNotifier() *notification.Dispatcher {
	return notification.NewDispatcher(notification.LogSink{})
}

// allWeekSlots opens every weekday fully so creation tests control the
// outcome through the clock-relative rules, not the weekly calendar.
func allWeekSlots() []models.AvailabilitySlot {
	slots := make([]models.AvailabilitySlot, 0, 7)
	for wd := 0; wd < 7; wd++ {
		slots = append(slots, models.AvailabilitySlot{
			Weekday: wd, StartTime: "00:00", EndTime: "23:59", Timezone: "UTC", Active: true,
		})
	}
	return slots
}
