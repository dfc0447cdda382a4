package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	bookingserrors "buffet/internal/bookings/errors"
	"buffet/internal/capacity"
	draftserrors "buffet/internal/drafts/errors"
	"buffet/internal/events"
	"buffet/internal/scheduling"
	mongodb "buffet/pkg/db/mongo"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"
	"buffet/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	draftID   = "6710f2a1c3b4d5e6f7a8b9c0"
	bookingID = "6710f2a1c3b4d5e6f7a8b9c1"
	eventURI  = "https://api.calendly.com/scheduled_events/ABC"
)

var edt = time.FixedZone("EDT", -4*60*60)

// Wednesday, three days before the weekend of Oct 24-25 2026.
var fixedNow = time.Date(2026, 10, 21, 10, 0, 0, 0, edt)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	bookings  map[string]*model.Booking
	createErr error
	created   int
}

func newBookingRepo(bookings ...*model.Booking) *mockBookingRepository {
	m := &mockBookingRepository{bookings: map[string]*model.Booking{}}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created++
	booking.ID = fmt.Sprintf("6710f2a1c3b4d5e6f7a8c%03d", m.created)
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindByEventURI(ctx context.Context, uri string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.SchedulerEventURI == uri {
			return b, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByInviteeURI(ctx context.Context, uri string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.SchedulerInviteeURI == uri {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindActiveInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindLatest(ctx context.Context, limit int) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockLockRepository struct {
	held     map[string]string
	released int
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) error {
	if m.held == nil {
		m.held = map[string]string{}
	}
	if _, ok := m.held[lock.ID]; ok {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
	}
	m.held[lock.ID] = lock.Owner
	return nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	if m.held[lockID] == owner {
		delete(m.held, lockID)
		m.released++
	}
	return nil
}

type mockDraftRepository struct {
	drafts map[string]*model.BookingDraft
}

func (m *mockDraftRepository) Create(ctx context.Context, draft *model.BookingDraft) error { return nil }

func (m *mockDraftRepository) FindByID(ctx context.Context, id string) (*model.BookingDraft, error) {
	d, ok := m.drafts[id]
	if !ok {
		return nil, draftserrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDraftRepository) Replace(ctx context.Context, draft *model.BookingDraft) error { return nil }

func (m *mockDraftRepository) MarkBooked(ctx context.Context, id string) error {
	m.drafts[id].Status = model.DraftBooked
	return nil
}

type mockEventFetcher struct {
	event *scheduling.Event
	err   error
}

func (m *mockEventFetcher) GetEvent(ctx context.Context, uri string) (*scheduling.Event, error) {
	return m.event, m.err
}

type mockCapacity struct {
	available   int
	invalidated []time.Time
	checks      int
}

func (m *mockCapacity) Overview(ctx context.Context) ([]capacity.DayCapacity, error) { return nil, nil }

func (m *mockCapacity) Weekend(ctx context.Context, offset int) (*capacity.WeekendAvailability, error) {
	return nil, nil
}

func (m *mockCapacity) Check(ctx context.Context, day time.Time, session model.Session, guests int) (*capacity.SlotAvailability, error) {
	m.checks++
	if guests > m.available {
		return nil, apperrors.CapacityReached(string(session), guests, m.available)
	}
	return &capacity.SlotAvailability{Session: session, AvailableSeats: m.available}, nil
}

func (m *mockCapacity) Invalidate(ctx context.Context, times ...time.Time) {
	m.invalidated = append(m.invalidated, times...)
}

type recordingPublisher struct {
	published []events.BookingEvent
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	p.published = append(p.published, event)
	return p.err
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

type fixture struct {
	repo      *mockBookingRepository
	locks     *mockLockRepository
	drafts    *mockDraftRepository
	fetcher   *mockEventFetcher
	capacity  *mockCapacity
	publisher *recordingPublisher
	svc       BookingService
}

var guest = middleware.Principal{UserID: "user-1", Email: "guest@example.com"}

func newFixture(bookings ...*model.Booking) *fixture {
	f := &fixture{
		repo:  newBookingRepo(bookings...),
		locks: &mockLockRepository{},
		drafts: &mockDraftRepository{drafts: map[string]*model.BookingDraft{
			draftID: {
				ID: draftID, UserID: "user-1", Name: "Ayesha Khan", Email: "guest@example.com",
				Phone: "+16473555671", GuestCount: 4, Status: model.DraftSubmitted,
			},
		}},
		fetcher:   &mockEventFetcher{},
		capacity:  &mockCapacity{available: 30},
		publisher: &recordingPublisher{},
	}
	log := logger.Discard()
	svc := NewBookingService(f.repo, f.locks, f.drafts, f.fetcher, f.capacity, f.publisher, validation.New(log), Options{
		Location:           edt,
		CancellationCutoff: 2 * time.Hour,
		HorizonWeeks:       4,
	}, log)
	svc.(*bookingService).now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func scheduledEvent() *scheduling.Event {
	return &scheduling.Event{
		URI:       eventURI,
		Name:      "Weekend Buffet",
		StartTime: "2026-10-24T17:00:00Z",
		EndTime:   "2026-10-24T18:30:00Z",
		Status:    "active",
	}
}

// ────────────────────────────────────────────────
// CreateScheduled
// ────────────────────────────────────────────────

func TestCreateScheduled_Confirmed(t *testing.T) {
	f := newFixture()
	f.fetcher.event = scheduledEvent()

	booking, err := f.svc.CreateScheduled(context.Background(), guest, &model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed || booking.Source != model.SourceScheduler {
		t.Errorf("unexpected booking %+v", booking)
	}
	if booking.Session != model.SessionSaturdayLunch {
		t.Errorf("session = %q, want saturday_lunch", booking.Session)
	}
	if booking.GuestEmail != "guest@example.com" || booking.GuestCount != 4 {
		t.Errorf("draft details not copied: %+v", booking)
	}
	if f.drafts.drafts[draftID].Status != model.DraftBooked {
		t.Error("draft not marked booked")
	}
	if len(f.publisher.published) != 1 || f.publisher.published[0].Type != events.BookingCreated {
		t.Errorf("expected one booking.created event, got %+v", f.publisher.published)
	}
	if len(f.capacity.invalidated) != 1 {
		t.Errorf("expected cache invalidation, got %d", len(f.capacity.invalidated))
	}
}

func TestCreateScheduled_LookupFailureStoresPending(t *testing.T) {
	f := newFixture()
	f.fetcher.err = &scheduling.UpstreamError{StatusCode: 503, Body: "unavailable"}

	booking, err := f.svc.CreateScheduled(context.Background(), guest, &model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPending || booking.ScheduledStart != nil || booking.ScheduledEnd != nil {
		t.Errorf("expected pending booking without times, got %+v", booking)
	}
	if len(f.capacity.invalidated) != 0 {
		t.Error("nothing to invalidate without a start time")
	}
}

func TestCreateScheduled_OverCapacityIsAccepted(t *testing.T) {
	f := newFixture()
	f.fetcher.event = scheduledEvent()
	f.capacity.available = 2

	if _, err := f.svc.CreateScheduled(context.Background(), guest, &model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.capacity.checks != 1 {
		t.Errorf("expected a capacity check, got %d", f.capacity.checks)
	}
}

func TestCreateScheduled_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		caller   middleware.Principal
		req      model.ScheduledBookingRequest
		wantCode string
	}{
		{
			name:     "missing event uri",
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: draftID},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "someone else's draft",
			caller:   middleware.Principal{UserID: "user-2"},
			req:      model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI},
			wantCode: apperrors.CodeForbidden,
		},
		{
			name:     "unknown draft",
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: "6710f2a1c3b4d5e6f7a8b9ff", EventURI: eventURI},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "duplicate event",
			setup: func(f *fixture) {
				f.repo.bookings[bookingID] = &model.Booking{ID: bookingID, SchedulerEventURI: eventURI}
			},
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI},
			wantCode: apperrors.CodeConflict,
		},
		{
			name: "draft already booked",
			setup: func(f *fixture) {
				f.drafts.drafts[draftID].Status = model.DraftBooked
			},
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI},
			wantCode: apperrors.CodeConflict,
		},
		{
			name: "canceled event",
			setup: func(f *fixture) {
				e := scheduledEvent()
				e.Status = "canceled"
				f.fetcher.event = e
			},
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI},
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "duplicate key race",
			setup: func(f *fixture) {
				f.fetcher.event = scheduledEvent()
				f.repo.createErr = bookingserrors.ErrDuplicateEvent
			},
			caller:   guest,
			req:      model.ScheduledBookingRequest{DraftID: draftID, EventURI: eventURI},
			wantCode: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			_, err := f.svc.CreateScheduled(context.Background(), tt.caller, &tt.req)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// CreateSlot
// ────────────────────────────────────────────────

func TestCreateSlot_Success(t *testing.T) {
	f := newFixture()

	booking, err := f.svc.CreateSlot(context.Background(), guest, &model.SlotBookingRequest{
		DraftID: draftID, Date: "2026-10-24", Session: model.SessionSaturdayDinner,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2026, 10, 24, 17, 0, 0, 0, edt)
	if booking.ScheduledStart == nil || !booking.ScheduledStart.Equal(wantStart) {
		t.Errorf("start = %v, want %v", booking.ScheduledStart, wantStart)
	}
	if booking.Status != model.StatusPending || booking.Source != model.SourceWebsite {
		t.Errorf("unexpected booking %+v", booking)
	}
	if len(f.locks.held) != 0 || f.locks.released != 1 {
		t.Errorf("lock not released: %+v", f.locks)
	}
}

func TestCreateSlot_CapacityReached(t *testing.T) {
	f := newFixture()
	f.capacity.available = 3

	_, err := f.svc.CreateSlot(context.Background(), guest, &model.SlotBookingRequest{
		DraftID: draftID, Date: "2026-10-24", Session: model.SessionSaturdayLunch,
	})
	if !apperrors.HasCode(err, apperrors.CodeCapacityReached) {
		t.Fatalf("expected CAPACITY_REACHED, got %v", err)
	}
	if f.repo.created != 0 {
		t.Error("booking must not be created")
	}
	if f.locks.released != 1 {
		t.Error("lock must be released on rejection")
	}
}

func TestCreateSlot_LockHeld(t *testing.T) {
	f := newFixture()
	f.locks.held = map[string]string{"booking_lock_2026-10-24_saturday_lunch": "other"}

	_, err := f.svc.CreateSlot(context.Background(), guest, &model.SlotBookingRequest{
		DraftID: draftID, Date: "2026-10-24", Session: model.SessionSaturdayLunch,
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT, got %v", err)
	}
	if f.locks.held["booking_lock_2026-10-24_saturday_lunch"] != "other" {
		t.Error("foreign lock must not be released")
	}
}

func TestCreateSlot_InvalidSlots(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		session model.Session
	}{
		{"weekday", "2026-10-22", model.SessionSaturdayLunch},
		{"no sunday dinner", "2026-10-25", model.SessionSaturdayDinner},
		{"past weekend", "2026-10-17", model.SessionSaturdayLunch},
		{"beyond horizon", "2026-11-28", model.SessionSaturdayLunch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateSlot(context.Background(), guest, &model.SlotBookingRequest{
				DraftID: draftID, Date: tt.date, Session: tt.session,
			})
			if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestCreateSlot_LastWeekendOfHorizon(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateSlot(context.Background(), guest, &model.SlotBookingRequest{
		DraftID: draftID, Date: "2026-11-22", Session: model.SessionSundayLunch,
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ────────────────────────────────────────────────
// Cancel, Get, UpdateStatus
// ────────────────────────────────────────────────

func bookingAt(start time.Time, status model.BookingStatus) *model.Booking {
	return &model.Booking{ID: bookingID, UserID: "user-1", Status: status, GuestCount: 2, ScheduledStart: &start}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		booking  *model.Booking
		caller   middleware.Principal
		wantCode string
	}{
		{"well ahead", bookingAt(fixedNow.Add(72*time.Hour), model.StatusConfirmed), guest, ""},
		{"no start time", &model.Booking{ID: bookingID, UserID: "user-1", Status: model.StatusPending, GuestCount: 2}, guest, ""},
		{"inside cutoff", bookingAt(fixedNow.Add(90*time.Minute), model.StatusConfirmed), guest, apperrors.CodeConflict},
		{"already cancelled", bookingAt(fixedNow.Add(72*time.Hour), model.StatusCancelled), guest, apperrors.CodeConflict},
		{"not owner", bookingAt(fixedNow.Add(72*time.Hour), model.StatusPending), middleware.Principal{UserID: "user-2"}, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.booking)
			got, err := f.svc.Cancel(context.Background(), tt.caller, bookingID)
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Errorf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != model.StatusCancelled {
				t.Errorf("status = %s", got.Status)
			}
			if len(f.publisher.published) != 1 || f.publisher.published[0].Type != events.BookingCancelled {
				t.Errorf("expected booking.cancelled, got %+v", f.publisher.published)
			}
		})
	}
}

func TestGet_OwnerOrAdmin(t *testing.T) {
	f := newFixture(bookingAt(fixedNow, model.StatusPending))

	if _, err := f.svc.Get(context.Background(), guest, bookingID); err != nil {
		t.Errorf("owner: unexpected error %v", err)
	}
	admin := middleware.Principal{UserID: "admin-1", Role: middleware.RoleAdmin}
	if _, err := f.svc.Get(context.Background(), admin, bookingID); err != nil {
		t.Errorf("admin: unexpected error %v", err)
	}
	_, err := f.svc.Get(context.Background(), middleware.Principal{UserID: "user-2"}, bookingID)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(bookingAt(fixedNow, model.StatusPending))

	got, err := f.svc.UpdateStatus(context.Background(), bookingID, &model.StatusUpdate{Status: model.StatusNoShow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusNoShow {
		t.Errorf("status = %s", got.Status)
	}
	if f.publisher.published[0].Type != events.BookingStatusChanged {
		t.Errorf("expected booking.status_changed, got %s", f.publisher.published[0].Type)
	}

	_, err = f.svc.UpdateStatus(context.Background(), bookingID, &model.StatusUpdate{Status: "archived"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}

	_, err = f.svc.UpdateStatus(context.Background(), "not-an-id", &model.StatusUpdate{Status: model.StatusConfirmed})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateStatus_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(bookingAt(fixedNow, model.StatusPending))
	f.publisher.err = errors.New("broker down")

	if _, err := f.svc.UpdateStatus(context.Background(), bookingID, &model.StatusUpdate{Status: model.StatusConfirmed}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCancelByInvitee(t *testing.T) {
	b := bookingAt(fixedNow.Add(time.Hour), model.StatusConfirmed)
	b.SchedulerInviteeURI = "https://api.calendly.com/scheduled_events/ABC/invitees/XYZ"
	f := newFixture(b)

	got, err := f.svc.CancelByInvitee(context.Background(), b.SchedulerInviteeURI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("status = %s", got.Status)
	}

	again, err := f.svc.CancelByInvitee(context.Background(), b.SchedulerInviteeURI)
	if err != nil || again.Status != model.StatusCancelled {
		t.Errorf("second cancel should be a no-op, got %v %v", again, err)
	}
	if len(f.publisher.published) != 1 {
		t.Errorf("expected one event, got %d", len(f.publisher.published))
	}

	_, err = f.svc.CancelByInvitee(context.Background(), "https://unknown")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
