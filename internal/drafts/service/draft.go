package service

import (
	"context"
	"errors"

	draftserrors "buffet/internal/drafts/errors"
	"buffet/internal/drafts/repository"
	"buffet/internal/scheduling"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"
	"buffet/pkg/sanitizer"
	"buffet/pkg/validation"
)

// ProfileFiller completes a guest's profile from the reservation form.
type ProfileFiller interface {
	FillMissing(ctx context.Context, caller middleware.Principal, name, phone string) error
}

type TokenSealer interface {
	Seal(userID, draftID string) (string, error)
}

type SchedulingLink struct {
	DraftID string `json:"draft_id"`
	URL     string `json:"url"`
}

type DraftService interface {
	Create(ctx context.Context, caller middleware.Principal, input *model.DraftInput) (*model.BookingDraft, error)
	Update(ctx context.Context, caller middleware.Principal, id string, input *model.DraftInput) (*model.BookingDraft, error)
	// Get returns the draft if the caller owns it.
	Get(ctx context.Context, caller middleware.Principal, id string) (*model.BookingDraft, error)
	SchedulingURL(ctx context.Context, caller middleware.Principal, id string) (*SchedulingLink, error)
}

type Options struct {
	PhoneRegions []string
	WidgetURL    string
	// Sealer is optional. Without it the widget link carries no draft token.
	Sealer TokenSealer
}

type draftService struct {
	repo      repository.DraftRepository
	profiles  ProfileFiller
	validator *validation.Validator
	opts      Options
	log       *logger.Logger
}

func NewDraftService(repo repository.DraftRepository, profiles ProfileFiller, validator *validation.Validator, opts Options, log *logger.Logger) DraftService {
	return &draftService{
		repo:      repo,
		profiles:  profiles,
		validator: validator,
		opts:      opts,
		log:       log,
	}
}

func (s *draftService) Create(ctx context.Context, caller middleware.Principal, input *model.DraftInput) (*model.BookingDraft, error) {
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.prepare(caller, input); err != nil {
		return nil, err
	}

	draft := &model.BookingDraft{UserID: caller.UserID, Status: model.DraftSubmitted}
	apply(draft, input)

	if err := s.repo.Create(ctx, draft); err != nil {
		s.log.Error("Failed to create booking draft", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to save reservation details", err)
	}

	s.fillProfile(ctx, caller, draft)
	s.log.Info("Booking draft created", "id", draft.ID, "user_id", caller.UserID, "guest_count", draft.GuestCount)
	return draft, nil
}

func (s *draftService) Update(ctx context.Context, caller middleware.Principal, id string, input *model.DraftInput) (*model.BookingDraft, error) {
	draft, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if draft.Status == model.DraftBooked {
		return nil, apperrors.Conflict("Reservation details cannot be changed after booking")
	}
	if err := s.prepare(caller, input); err != nil {
		return nil, err
	}

	apply(draft, input)
	if err := s.repo.Replace(ctx, draft); err != nil {
		return nil, s.translate(err, id, "Failed to update reservation details")
	}

	s.fillProfile(ctx, caller, draft)
	s.log.Info("Booking draft updated", "id", id, "user_id", caller.UserID)
	return draft, nil
}

func (s *draftService) Get(ctx context.Context, caller middleware.Principal, id string) (*model.BookingDraft, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Draft ID cannot be empty")
	}

	draft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve reservation details")
	}
	if draft.UserID != caller.UserID {
		s.log.Warn("Draft access denied", "id", id, "user_id", caller.UserID)
		return nil, apperrors.Forbidden("This reservation belongs to another guest")
	}
	return draft, nil
}

func (s *draftService) SchedulingURL(ctx context.Context, caller middleware.Principal, id string) (*SchedulingLink, error) {
	draft, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	prefill := scheduling.Prefill{
		Name:   draft.Name,
		Email:  draft.Email,
		Phone:  draft.Phone,
		Guests: draft.GuestCount,
	}
	if s.opts.Sealer != nil {
		token, err := s.opts.Sealer.Seal(draft.UserID, draft.ID)
		if err != nil {
			return nil, apperrors.Internal("Failed to prepare scheduling link", err)
		}
		prefill.UTMContent = token
	}

	link, err := scheduling.PrefillURL(s.opts.WidgetURL, prefill)
	if err != nil {
		return nil, apperrors.Internal("Scheduling widget URL is invalid", err)
	}
	return &SchedulingLink{DraftID: draft.ID, URL: link}, nil
}

// prepare defaults the email from the token, validates, then normalizes input.
func (s *draftService) prepare(caller middleware.Principal, input *model.DraftInput) error {
	if input.Email == "" {
		input.Email = caller.Email
	}
	if err := s.validator.Check(input, "Invalid reservation details"); err != nil {
		s.log.Warn("Booking draft validation failed", "user_id", caller.UserID, "error", err)
		return err
	}

	input.Name = sanitizer.NormalizeName(input.Name)
	input.Email = sanitizer.NormalizeEmail(input.Email)
	input.Phone, _ = sanitizer.NormalizePhone(input.Phone, s.opts.PhoneRegions...)
	input.Notes = sanitizer.NormalizeText(input.Notes)
	return nil
}

func apply(draft *model.BookingDraft, input *model.DraftInput) {
	draft.Name = input.Name
	draft.Email = input.Email
	draft.Phone = input.Phone
	draft.GuestCount = input.GuestCount
	draft.Session = input.Session
	draft.Notes = input.Notes
}

// fillProfile is best effort: a failure is logged and the draft still stands.
func (s *draftService) fillProfile(ctx context.Context, caller middleware.Principal, draft *model.BookingDraft) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.FillMissing(ctx, caller, draft.Name, draft.Phone); err != nil {
		s.log.Warn("Failed to pre-fill profile from draft", "user_id", caller.UserID, "error", err)
	}
}

func (s *draftService) translate(err error, id, message string) error {
	if errors.Is(err, draftserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking draft", id)
	}
	if errors.Is(err, draftserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid draft ID format")
	}
	s.log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
