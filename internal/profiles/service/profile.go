package service

import (
	"context"
	"errors"

	profileserrors "buffet/internal/profiles/errors"
	"buffet/internal/profiles/repository"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"
	"buffet/pkg/sanitizer"
	"buffet/pkg/validation"
)

type ProfileService interface {
	// Get returns the caller's profile, creating it from the token claims on first use.
	Get(ctx context.Context, caller middleware.Principal) (*model.Profile, error)
	Update(ctx context.Context, caller middleware.Principal, update *model.ProfileUpdate) (*model.Profile, error)
	// FillMissing sets name and phone only where the stored profile has none.
	FillMissing(ctx context.Context, caller middleware.Principal, name, phone string) error
	FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.Profile, error)
}

type profileService struct {
	repo         repository.ProfileRepository
	validator    *validation.Validator
	phoneRegions []string
	log          *logger.Logger
}

func NewProfileService(repo repository.ProfileRepository, validator *validation.Validator, phoneRegions []string, log *logger.Logger) ProfileService {
	return &profileService{
		repo:         repo,
		validator:    validator,
		phoneRegions: phoneRegions,
		log:          log,
	}
}

func (s *profileService) Get(ctx context.Context, caller middleware.Principal) (*model.Profile, error) {
	profile, err := s.find(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	seeded, err := s.repo.Upsert(ctx, &model.Profile{
		UserID: caller.UserID,
		Name:   sanitizer.NormalizeName(caller.Name),
		Email:  sanitizer.NormalizeEmail(caller.Email),
	})
	if err != nil {
		s.log.Error("Failed to seed profile", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create profile", err)
	}
	s.log.Info("Profile created from token claims", "user_id", caller.UserID)
	return seeded, nil
}

func (s *profileService) Update(ctx context.Context, caller middleware.Principal, update *model.ProfileUpdate) (*model.Profile, error) {
	if err := s.validator.Check(update, "Invalid profile"); err != nil {
		return nil, err
	}

	current, err := s.find(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	profile := &model.Profile{UserID: caller.UserID, Name: caller.Name}
	if current != nil {
		profile = current
	}
	profile.Email = sanitizer.NormalizeEmail(caller.Email)

	if update.Name != nil {
		profile.Name = sanitizer.NormalizeName(*update.Name)
	}
	if update.Phone != nil {
		profile.Phone, _ = sanitizer.NormalizePhone(*update.Phone, s.phoneRegions...)
	}

	stored, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		s.log.Error("Failed to update profile", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Internal("Failed to update profile", err)
	}
	s.log.Info("Profile updated", "user_id", caller.UserID)
	return stored, nil
}

func (s *profileService) FillMissing(ctx context.Context, caller middleware.Principal, name, phone string) error {
	current, err := s.find(ctx, caller.UserID)
	if err != nil {
		return err
	}

	profile := &model.Profile{UserID: caller.UserID, Email: sanitizer.NormalizeEmail(caller.Email)}
	if current != nil {
		profile = current
	}
	changed := current == nil
	if profile.Name == "" && name != "" {
		profile.Name = name
		changed = true
	}
	if profile.Phone == "" && phone != "" {
		profile.Phone = phone
		changed = true
	}
	if !changed {
		return nil
	}

	if _, err := s.repo.Upsert(ctx, profile); err != nil {
		s.log.Error("Failed to fill profile", "user_id", caller.UserID, "error", err)
		return apperrors.Internal("Failed to update profile", err)
	}
	return nil
}

func (s *profileService) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.Profile, error) {
	profiles, err := s.repo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		s.log.Error("Failed to load profiles", "count", len(userIDs), "error", err)
		return nil, apperrors.Internal("Failed to load profiles", err)
	}

	byUser := make(map[string]*model.Profile, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	return byUser, nil
}

func (s *profileService) find(ctx context.Context, userID string) (*model.Profile, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, nil
		}
		s.log.Error("Failed to read profile", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to read profile", err)
	}
	return profile, nil
}
