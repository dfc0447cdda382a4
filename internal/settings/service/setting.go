package service

import (
	"context"
	"errors"

	"buffet/internal/settings/repository"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"
	"buffet/pkg/validation"
)

type SettingService interface {
	SessionCapacity(ctx context.Context) (model.SessionCapacity, error)
	UpdateSessionCapacity(ctx context.Context, capacity model.SessionCapacity) (model.SessionCapacity, error)
}

type settingService struct {
	repo      repository.SettingRepository
	validator *validation.Validator
	log       *logger.Logger
}

func NewSettingService(repo repository.SettingRepository, validator *validation.Validator, log *logger.Logger) SettingService {
	return &settingService{repo: repo, validator: validator, log: log}
}

// SessionCapacity falls back to the default lunch/dinner limits when no
// setting has been saved or the stored value is unusable.
func (s *settingService) SessionCapacity(ctx context.Context) (model.SessionCapacity, error) {
	var capacity model.SessionCapacity
	err := s.repo.Get(ctx, model.SettingBuffetCapacity, &capacity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultSessionCapacity(), nil
		}
		s.log.Error("Failed to read capacity setting", "error", err)
		return model.SessionCapacity{}, apperrors.Internal("Failed to read capacity settings", err)
	}

	def := model.DefaultSessionCapacity()
	if capacity.Lunch <= 0 {
		capacity.Lunch = def.Lunch
	}
	if capacity.Dinner <= 0 {
		capacity.Dinner = def.Dinner
	}
	return capacity, nil
}

func (s *settingService) UpdateSessionCapacity(ctx context.Context, capacity model.SessionCapacity) (model.SessionCapacity, error) {
	if err := s.validator.Check(capacity, "Invalid capacity settings"); err != nil {
		return model.SessionCapacity{}, err
	}

	if err := s.repo.Upsert(ctx, model.SettingBuffetCapacity, capacity); err != nil {
		s.log.Error("Failed to save capacity setting", "error", err)
		return model.SessionCapacity{}, apperrors.Internal("Failed to save capacity settings", err)
	}

	s.log.Info("Capacity settings updated", "lunch", capacity.Lunch, "dinner", capacity.Dinner)
	return capacity, nil
}
