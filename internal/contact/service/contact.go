package service

import (
	"context"

	"buffet/internal/contact/repository"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"
	"buffet/pkg/sanitizer"
	"buffet/pkg/validation"
)

type ContactService interface {
	Submit(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error)
}

type contactService struct {
	repo         repository.ContactRepository
	validator    *validation.Validator
	phoneRegions []string
	log          *logger.Logger
}

func NewContactService(repo repository.ContactRepository, validator *validation.Validator, phoneRegions []string, log *logger.Logger) ContactService {
	return &contactService{
		repo:         repo,
		validator:    validator,
		phoneRegions: phoneRegions,
		log:          log,
	}
}

func (s *contactService) Submit(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error) {
	clean := &model.ContactMessage{
		Name:    sanitizer.NormalizeName(msg.Name),
		Email:   sanitizer.NormalizeEmail(msg.Email),
		Phone:   sanitizer.TrimAndNormalize(msg.Phone),
		Subject: sanitizer.NormalizeText(msg.Subject),
		Message: sanitizer.NormalizeText(msg.Message),
	}
	if err := s.validator.Check(clean, "Invalid contact form"); err != nil {
		return nil, err
	}
	if e164, ok := sanitizer.NormalizePhone(clean.Phone, s.phoneRegions...); ok {
		clean.Phone = e164
	}

	if err := s.repo.Create(ctx, clean); err != nil {
		s.log.Error("Failed to store contact message", "error", err)
		return nil, apperrors.Internal("Failed to send message", err)
	}

	s.log.Info("Contact message received", "id", clean.ID, "subject_length", len(clean.Subject))
	return clean, nil
}
