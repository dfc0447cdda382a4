package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterTags installs the domain tags used in this package's struct tags.
func RegisterTags(v *validator.Validate) error {
	if err := v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return BookingStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("buffet_session", func(fl validator.FieldLevel) bool {
		return Session(fl.Field().String()).Valid()
	})
}

// NewValidator returns a validator with the domain tags registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterTags(v); err != nil {
		return nil, err
	}
	return v, nil
}
