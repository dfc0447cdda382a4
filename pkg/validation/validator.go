package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Validator checks request and model structs and reports fields by their JSON names.
type Validator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v, err := model.NewValidator()
	if err != nil {
		log.Fatal("Failed to register domain validators", "error", err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return &Validator{validate: v, log: log}
}

// Struct returns ValidationErrors for tag violations, nil when s is valid.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return translate(validationErrs)
	}
	return err
}

// Check validates s and converts failures to a 422 AppError.
func (v *Validator) Check(s any, message string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return ToAppError(err, message)
}

func ToAppError(err error, message string) error {
	var fields ValidationErrors
	if errors.As(err, &fields) {
		return apperrors.Validation(message, map[string]any{"fields": fields})
	}
	return apperrors.Internal("Validation failed unexpectedly", err)
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		field := err.Field()
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
			} else {
				message = fmt.Sprintf("%s must be at least %s", field, err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
			} else {
				message = fmt.Sprintf("%s must be at most %s", field, err.Param())
			}
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "eq":
			message = fmt.Sprintf("%s must be %s", field, err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must use the format %s", field, err.Param())
		case "booking_status":
			message = fmt.Sprintf("%s must be a valid booking status", field)
		case "buffet_session":
			message = fmt.Sprintf("%s must be one of: saturday_lunch saturday_dinner sunday_lunch", field)
		}

		out = append(out, ValidationError{Field: field, Message: message})
	}

	return out
}
