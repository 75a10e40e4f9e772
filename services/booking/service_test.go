package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingRepo "carenow/database/repository/booking"
	"carenow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeBookingRepo struct {
	bookings  map[string]*models.Booking
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, expected, next models.BookingStatus, fields map[string]interface{}) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != expected {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = next
	if reason, ok := fields["cancellation_reason"].(string); ok {
		b.CancellationReason = reason
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) AssignPartner(_ context.Context, id, partnerID string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != models.BookingStatusPending || (b.PartnerID != "" && b.PartnerID != partnerID) {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = models.BookingStatusConfirmed
	b.PartnerID = partnerID
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) QueryByPartnerAndStatus(_ context.Context, partnerID string, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PartnerID == partnerID && b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) QueryByDateRange(_ context.Context, ownerID, startDate, endDate string, isPartner bool) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		owner := b.UserID
		if isPartner {
			owner = b.PartnerID
		}
		if owner == ownerID && b.Date >= startDate && b.Date <= endDate {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) SetPaymentStatus(_ context.Context, id string, status models.PaymentStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.PaymentStatus = status
	return nil
}

func (r *fakeBookingRepo) EnsureIndexes(context.Context) error { return nil }

type fakeMatcher struct {
	candidate *models.RankedPartner
	err       error
	lastReq   models.MatchRequest
}

func (m *fakeMatcher) MatchPartners(_ context.Context, req models.MatchRequest) ([]models.RankedPartner, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.candidate == nil {
		return nil, nil
	}
	return []models.RankedPartner{*m.candidate}, nil
}

func (m *fakeMatcher) AutoAssignPartner(_ context.Context, req models.MatchRequest) (*models.RankedPartner, error) {
	m.lastReq = req
	return m.candidate, m.err
}

type sentPush struct {
	target    string
	accountID string
	title     string
}

type fakeNotifier struct {
	sent []sentPush
	err  error
}

func (n *fakeNotifier) SendUserPush(_ context.Context, userID, title, _ string, _ map[string]string) error {
	n.sent = append(n.sent, sentPush{target: "client", accountID: userID, title: title})
	return n.err
}

func (n *fakeNotifier) SendPartnerPush(_ context.Context, partnerID, title, _ string, _ map[string]string) error {
	n.sent = append(n.sent, sentPush{target: "partner", accountID: partnerID, title: title})
	return n.err
}

type fakeScheduler struct {
	scheduled []models.ReminderPayload
}

func (s *fakeScheduler) ScheduleReminder(_ context.Context, payload models.ReminderPayload, _ time.Time) error {
	s.scheduled = append(s.scheduled, payload)
	return nil
}

type testEnv struct {
	svc       *DefaultBookingService
	repo      *fakeBookingRepo
	matcher   *fakeMatcher
	notifier  *fakeNotifier
	scheduler *fakeScheduler
}

func newTestEnv() *testEnv {
	repo := newFakeBookingRepo()
	matcher := &fakeMatcher{}
	notifier := &fakeNotifier{}
	scheduler := &fakeScheduler{}
	return &testEnv{
		svc: &DefaultBookingService{
			Repo:      repo,
			Matcher:   matcher,
			Notifier:  notifier,
			Reminders: scheduler,
			Clock:     fakeClock{now: testNow},
		},
		repo:      repo,
		matcher:   matcher,
		notifier:  notifier,
		scheduler: scheduler,
	}
}

func (e *testEnv) seedBooking(status models.BookingStatus, partnerID string) *models.Booking {
	b := &models.Booking{
		ID:            "bk-1",
		UserID:        "user-1",
		PartnerID:     partnerID,
		ServiceName:   "House Cleaning",
		Date:          "2026-03-10",
		TimeSlot:      "12:00",
		Hours:         3,
		TotalPrice:    120,
		Address:       "42 Rosewood Avenue, Springfield",
		Status:        status,
		PaymentStatus: models.PaymentStatusUnpaid,
		CreatedAt:     testNow,
	}
	e.repo.bookings[b.ID] = b
	return b
}

// --- create ---

func TestCreateBookingPersistsPending(t *testing.T) {
	env := newTestEnv()

	b, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, b.PaymentStatus)
	assert.Empty(t, b.PartnerID)

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestCreateBookingRejectsInvalidRequest(t *testing.T) {
	env := newTestEnv()
	req := validRequest()
	req.Date = "2026-03-09"
	req.Hours = 15

	_, err := env.svc.CreateBooking(context.Background(), req)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "scheduled date cannot be in the past")
	assert.Contains(t, ve.Errors, "duration must be between 0.5 and 12 hours")
	assert.Empty(t, env.repo.bookings, "nothing may be persisted for invalid input")
}

func TestCreateBookingAutoAssignConfirms(t *testing.T) {
	env := newTestEnv()
	env.matcher.candidate = &models.RankedPartner{
		Partner: models.Partner{ID: "partner-9"},
		Score:   87,
	}

	req := validRequest()
	req.AutoAssign = true

	b, err := env.svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "partner-9", b.PartnerID)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "partner", env.notifier.sent[0].target)
	assert.Equal(t, "partner-9", env.notifier.sent[0].accountID)

	// Reminders for both sides, fired ahead of the 12:00 start.
	assert.Len(t, env.scheduler.scheduled, 2)
}

func TestCreateBookingAutoAssignDegradesOnMatcherFailure(t *testing.T) {
	env := newTestEnv()
	env.matcher.err = fmt.Errorf("directory unreachable")

	req := validRequest()
	req.AutoAssign = true

	b, err := env.svc.CreateBooking(context.Background(), req)
	require.NoError(t, err, "matching failure must not fail booking creation")
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Empty(t, b.PartnerID)
}

func TestCreateBookingAutoAssignNoCandidate(t *testing.T) {
	env := newTestEnv()
	env.matcher.candidate = nil

	req := validRequest()
	req.AutoAssign = true

	b, err := env.svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
}

func TestCreateBookingStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.repo.createErr = fmt.Errorf("write timeout")

	_, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.Error(t, err)

	var se *ServerError
	assert.ErrorAs(t, err, &se)
}

// --- accept ---

func TestAcceptBookingConfirms(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusPending, "")

	b, err := env.svc.AcceptBooking(context.Background(), "bk-1", "partner-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "partner-1", b.PartnerID)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "client", env.notifier.sent[0].target)
	assert.Equal(t, "Booking confirmed", env.notifier.sent[0].title)
}

func TestAcceptBookingIdempotentForSamePartner(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusConfirmed, "partner-1")

	b, err := env.svc.AcceptBooking(context.Background(), "bk-1", "partner-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Empty(t, env.notifier.sent, "re-accept must not re-notify")
}

func TestAcceptBookingConflictingPartner(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusConfirmed, "partner-1")

	_, err := env.svc.AcceptBooking(context.Background(), "bk-1", "partner-2")
	require.Error(t, err)
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "another partner")
}

func TestAcceptBookingNotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.AcceptBooking(context.Background(), "missing", "partner-1")
	assert.ErrorIs(t, err, bookingRepo.ErrNotFound)
}

// --- start / complete ---

func TestStartBookingRequiresAssignedPartner(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusConfirmed, "partner-1")

	_, err := env.svc.StartBooking(context.Background(), "bk-1", "partner-2")
	require.True(t, IsValidation(err))

	b, err := env.svc.StartBooking(context.Background(), "bk-1", "partner-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, b.Status)
}

func TestCompleteBookingFlow(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusInProgress, "partner-1")

	b, err := env.svc.CompleteBooking(context.Background(), "bk-1", "partner-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "Service completed", env.notifier.sent[0].title)
}

// No operation may skip a state or move backward.
func TestTransitionsNeverSkipStates(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusPending, "partner-1")

	_, err := env.svc.StartBooking(context.Background(), "bk-1", "partner-1")
	require.True(t, IsValidation(err))

	_, err = env.svc.CompleteBooking(context.Background(), "bk-1", "partner-1")
	require.True(t, IsValidation(err))

	stored, _ := env.repo.GetByID(context.Background(), "bk-1")
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestAcceptAfterStartRejected(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusInProgress, "partner-1")

	_, err := env.svc.AcceptBooking(context.Background(), "bk-1", "partner-1")
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "in_progress")
}

// --- cancel ---

func TestCancelConfirmedBookingNotifiesPartner(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusConfirmed, "partner-1")

	b, err := env.svc.CancelBooking(context.Background(), "bk-1", "user-1", "change of plans")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b.Status)
	assert.Equal(t, "change of plans", b.CancellationReason)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "partner", env.notifier.sent[0].target)
	assert.Equal(t, "Booking cancelled", env.notifier.sent[0].title)
}

func TestCancelPendingBookingWithoutPartner(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusPending, "")

	b, err := env.svc.CancelBooking(context.Background(), "bk-1", "user-1", "no longer needed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b.Status)
	assert.Empty(t, env.notifier.sent, "no partner to notify")
}

func TestCancelInProgressRejected(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusInProgress, "partner-1")

	_, err := env.svc.CancelBooking(context.Background(), "bk-1", "user-1", "too late")
	require.True(t, IsValidation(err))

	stored, _ := env.repo.GetByID(context.Background(), "bk-1")
	assert.Equal(t, models.BookingStatusInProgress, stored.Status)
	assert.Empty(t, stored.CancellationReason)
}

func TestCancelByNonOwnerRejected(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusPending, "")

	_, err := env.svc.CancelBooking(context.Background(), "bk-1", "user-2", "not mine")
	require.True(t, IsValidation(err))
}

// --- queries ---

func TestListBookings(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusConfirmed, "partner-1")

	byClient, err := env.svc.ListBookings(context.Background(), "user-1", "2026-03-01", "2026-03-31", false)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	byPartner, err := env.svc.ListBookings(context.Background(), "partner-1", "2026-03-01", "2026-03-31", true)
	require.NoError(t, err)
	assert.Len(t, byPartner, 1)

	outside, err := env.svc.ListBookings(context.Background(), "user-1", "2026-04-01", "2026-04-30", false)
	require.NoError(t, err)
	assert.Empty(t, outside)
}

// Notification failures must never surface to the caller.
func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	env := newTestEnv()
	env.seedBooking(models.BookingStatusPending, "")
	env.notifier.err = errors.New("push gateway down")

	b, err := env.svc.AcceptBooking(context.Background(), "bk-1", "partner-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
}
