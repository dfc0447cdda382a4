package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "buffet/internal/bookings/errors"
	"buffet/internal/bookings/repository"
	"buffet/internal/capacity"
	draftserrors "buffet/internal/drafts/errors"
	draftsrepo "buffet/internal/drafts/repository"
	"buffet/internal/events"
	"buffet/internal/scheduling"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"
	"buffet/pkg/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const lockTTL = 10 * time.Second

type BookingService interface {
	// CreateScheduled records a booking made through the scheduling widget.
	CreateScheduled(ctx context.Context, caller middleware.Principal, req *model.ScheduledBookingRequest) (*model.Booking, error)
	// CreateSlot books a draft directly into a buffet session after a seats check.
	CreateSlot(ctx context.Context, caller middleware.Principal, req *model.SlotBookingRequest) (*model.Booking, error)
	ListMine(ctx context.Context, caller middleware.Principal) ([]*model.Booking, error)
	Get(ctx context.Context, caller middleware.Principal, id string) (*model.Booking, error)
	Cancel(ctx context.Context, caller middleware.Principal, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error)
	CancelByInvitee(ctx context.Context, inviteeURI string) (*model.Booking, error)
}

type Options struct {
	Location           *time.Location
	CancellationCutoff time.Duration
	HorizonWeeks       int
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	drafts    draftsrepo.DraftRepository
	events    scheduling.EventFetcher
	capacity  capacity.Service
	publisher events.Publisher
	validator *validation.Validator
	opts      Options
	now       func() time.Time
	log       *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	drafts draftsrepo.DraftRepository,
	eventFetcher scheduling.EventFetcher,
	capacityService capacity.Service,
	publisher events.Publisher,
	validator *validation.Validator,
	opts Options,
	log *logger.Logger,
) BookingService {
	if opts.HorizonWeeks <= 0 || opts.HorizonWeeks > capacity.MaxWeekOffset {
		opts.HorizonWeeks = capacity.MaxWeekOffset
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		drafts:    drafts,
		events:    eventFetcher,
		capacity:  capacityService,
		publisher: publisher,
		validator: validator,
		opts:      opts,
		now:       time.Now,
		log:       log,
	}
}

func (s *bookingService) CreateScheduled(ctx context.Context, caller middleware.Principal, req *model.ScheduledBookingRequest) (*model.Booking, error) {
	if err := s.validator.Check(req, "Invalid booking request"); err != nil {
		return nil, err
	}
	draft, err := s.ownedDraft(ctx, caller, req.DraftID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByEventURI(ctx, req.EventURI); err == nil {
		s.log.Info("Scheduled event already booked", "event_uri", req.EventURI, "booking_id", existing.ID)
		return nil, apperrors.Conflict("This scheduled event has already been booked")
	} else if !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	booking := newBookingFromDraft(draft, model.SourceScheduler)
	booking.SchedulerEventURI = req.EventURI
	booking.SchedulerInviteeURI = req.InviteeURI
	booking.Status = model.StatusPending

	event, err := s.events.GetEvent(ctx, req.EventURI)
	switch {
	case err != nil:
		s.log.Warn("Event lookup failed, booking stored without times", "event_uri", req.EventURI, "error", err)
	case event.Canceled():
		return nil, apperrors.InvalidInput("The scheduled event has been canceled")
	default:
		start, end, err := event.Times()
		if err != nil {
			s.log.Warn("Event times unreadable, booking stored without times", "event_uri", req.EventURI, "error", err)
			break
		}
		booking.Status = model.StatusConfirmed
		booking.ScheduledStart = &start
		booking.ScheduledEnd = &end
		if session, ok := capacity.SessionAt(start, s.opts.Location); ok {
			booking.Session = session
			s.warnIfOverCapacity(ctx, start, session, booking.GuestCount)
		}
	}

	if err := s.create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) CreateSlot(ctx context.Context, caller middleware.Principal, req *model.SlotBookingRequest) (*model.Booking, error) {
	if err := s.validator.Check(req, "Invalid booking request"); err != nil {
		return nil, err
	}
	day, start, end, err := s.slotBounds(req)
	if err != nil {
		return nil, err
	}
	draft, err := s.ownedDraft(ctx, caller, req.DraftID)
	if err != nil {
		return nil, err
	}

	lockID, owner, err := s.acquireSlotLock(ctx, day, req.Session)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(context.WithoutCancel(ctx), lockID, owner); releaseErr != nil {
			s.log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	if _, err := s.capacity.Check(ctx, day, req.Session, draft.GuestCount); err != nil {
		s.log.Info("Slot booking rejected", "date", req.Date, "session", req.Session, "guests", draft.GuestCount, "error", err)
		return nil, err
	}

	booking := newBookingFromDraft(draft, model.SourceWebsite)
	booking.Status = model.StatusPending
	booking.Session = req.Session
	booking.ScheduledStart = &start
	booking.ScheduledEnd = &end

	if err := s.create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, caller middleware.Principal) ([]*model.Booking, error) {
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	bookings, err := s.repo.FindByUser(ctx, caller.UserID)
	if err != nil {
		s.log.Error("Failed to list bookings", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Get(ctx context.Context, caller middleware.Principal, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, apperrors.Forbidden("This booking belongs to another guest")
	}
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, caller middleware.Principal, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != caller.UserID {
		return nil, apperrors.Forbidden("This booking belongs to another guest")
	}
	if !booking.Status.Active() {
		return nil, apperrors.Conflict(fmt.Sprintf("A %s booking cannot be cancelled", booking.Status))
	}
	if booking.ScheduledStart != nil && s.now().Add(s.opts.CancellationCutoff).After(*booking.ScheduledStart) {
		return nil, apperrors.Conflict(fmt.Sprintf("Bookings can only be cancelled up to %s before the start time", humanize(s.opts.CancellationCutoff)))
	}

	return s.setStatus(ctx, booking, model.StatusCancelled)
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error) {
	if err := s.validator.Check(update, "Invalid status"); err != nil {
		return nil, err
	}
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == update.Status {
		return booking, nil
	}
	return s.setStatus(ctx, booking, update.Status)
}

func (s *bookingService) CancelByInvitee(ctx context.Context, inviteeURI string) (*model.Booking, error) {
	booking, err := s.repo.FindByInviteeURI(ctx, inviteeURI)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking for invitee")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	if booking.Status == model.StatusCancelled {
		return booking, nil
	}
	return s.setStatus(ctx, booking, model.StatusCancelled)
}

// --- Helpers ---

func newBookingFromDraft(draft *model.BookingDraft, source model.BookingSource) *model.Booking {
	return &model.Booking{
		UserID:     draft.UserID,
		DraftID:    draft.ID,
		Source:     source,
		GuestCount: draft.GuestCount,
		GuestName:  draft.Name,
		GuestEmail: draft.Email,
		Phone:      draft.Phone,
		Notes:      draft.Notes,
	}
}

// create stores booking and marks its draft booked in one transaction.
func (s *bookingService) create(ctx context.Context, booking *model.Booking) error {
	if err := s.validator.Check(booking, "Booking validation failed"); err != nil {
		s.log.Warn("Booking validation failed", "draft_id", booking.DraftID, "error", err)
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicateEvent) {
				return apperrors.Conflict("This scheduled event has already been booked")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.drafts.MarkBooked(sessCtx, booking.DraftID); err != nil {
			return apperrors.Internal("Failed to update reservation details", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to create booking", "draft_id", booking.DraftID, "error", err)
		return err
	}

	s.log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"source", booking.Source,
		"status", booking.Status,
		"guest_count", booking.GuestCount,
	)
	s.afterWrite(ctx, events.NewBookingEvent(events.BookingCreated, booking), booking)
	return nil
}

func (s *bookingService) setStatus(ctx context.Context, booking *model.Booking, status model.BookingStatus) (*model.Booking, error) {
	updated, err := s.repo.UpdateStatus(ctx, booking.ID, status)
	if err != nil {
		return nil, s.translate(err, booking.ID, "Failed to update booking")
	}

	s.log.Info("Booking status updated", "id", updated.ID, "from", booking.Status, "to", updated.Status)
	s.afterWrite(ctx, events.StatusEvent(updated), updated)
	return updated, nil
}

// afterWrite invalidates cached capacity and publishes event. Failures are logged only.
func (s *bookingService) afterWrite(ctx context.Context, event events.BookingEvent, booking *model.Booking) {
	if booking.ScheduledStart != nil {
		s.capacity.Invalidate(ctx, *booking.ScheduledStart)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to publish booking event", "type", event.Type, "booking_id", booking.ID, "error", err)
	}
}

func (s *bookingService) ownedDraft(ctx context.Context, caller middleware.Principal, draftID string) (*model.BookingDraft, error) {
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	draft, err := s.drafts.FindByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, draftserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking draft", draftID)
		}
		if errors.Is(err, draftserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid draft ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation details", err)
	}
	if draft.UserID != caller.UserID {
		return nil, apperrors.Forbidden("This reservation belongs to another guest")
	}
	if draft.Status == model.DraftBooked {
		return nil, apperrors.Conflict("These reservation details have already been booked")
	}
	return draft, nil
}

// slotBounds checks that the session is served on the requested day, has not
// started and lies within the booking horizon.
func (s *bookingService) slotBounds(req *model.SlotBookingRequest) (time.Time, time.Time, time.Time, error) {
	var zero time.Time
	day, err := capacity.ParseDay(req.Date, s.opts.Location)
	if err != nil {
		return zero, zero, zero, apperrors.InvalidInput("date must be formatted YYYY-MM-DD")
	}

	window, ok := capacity.WindowFor(req.Session)
	if !ok || window.Weekday != day.Weekday() {
		return zero, zero, zero, apperrors.InvalidInput(fmt.Sprintf("%s is not served on %s", req.Session, day.Weekday()))
	}

	now := s.now().In(s.opts.Location)
	start, end := window.Bounds(day)
	if !start.After(now) {
		return zero, zero, zero, apperrors.InvalidInput("This session has already started")
	}
	_, lastDay := capacity.WeekendOf(now, s.opts.HorizonWeeks)
	if day.After(lastDay) {
		return zero, zero, zero, apperrors.InvalidInput(fmt.Sprintf("Reservations open %d weeks ahead", s.opts.HorizonWeeks))
	}
	return day, start, end, nil
}

func (s *bookingService) acquireSlotLock(ctx context.Context, day time.Time, session model.Session) (string, string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s", day.Format(time.DateOnly), session)
	owner := uuid.NewString()

	lock := &model.BookingLock{
		ID:        lockID,
		Owner:     owner,
		ExpiresAt: time.Now().UTC().Add(lockTTL),
	}
	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", "", apperrors.Conflict("This session is currently being booked by another guest. Please try again.")
		}
		return "", "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, owner, nil
}

func (s *bookingService) warnIfOverCapacity(ctx context.Context, start time.Time, session model.Session, guests int) {
	if _, err := s.capacity.Check(ctx, start, session, guests); err != nil {
		s.log.Warn("Scheduled booking exceeds session capacity", "session", session, "start", start, "guests", guests, "error", err)
	}
}

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) translate(err error, id, message string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func humanize(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return d.String()
}
