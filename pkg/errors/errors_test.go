package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Booking not found"},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appErr := Internal("wrapped", cause)

	if !errors.Is(appErr, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		code   string
	}{
		{"not found", NotFoundWithID("Booking", "1"), http.StatusNotFound, CodeNotFound},
		{"validation", Validation("bad", nil), http.StatusUnprocessableEntity, CodeValidation},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest, CodeInvalidInput},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden("admins only"), http.StatusForbidden, CodeForbidden},
		{"conflict", Conflict("taken"), http.StatusConflict, CodeConflict},
		{"capacity", CapacityReached("saturday_lunch", 6, 2), http.StatusConflict, CodeCapacityReached},
		{"internal", Internal("boom", nil), http.StatusInternalServerError, CodeInternal},
		{"timeout", Timeout("slow"), http.StatusGatewayTimeout, CodeTimeout},
		{"unavailable", Unavailable("scheduling API"), http.StatusServiceUnavailable, CodeUnavailable},
		{"upstream", Upstream("scheduling API", 404, nil), http.StatusBadGateway, CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
		})
	}
}

func TestCapacityReached_Details(t *testing.T) {
	err := CapacityReached("saturday_dinner", 8, 3)

	if err.Details["available_seats"] != 3 {
		t.Errorf("expected available_seats detail 3, got %v", err.Details["available_seats"])
	}
	if err.Details["requested"] != 8 {
		t.Errorf("expected requested detail 8, got %v", err.Details["requested"])
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("wrapped app error is found", func(t *testing.T) {
		inner := Conflict("slot locked")
		wrapped := fmt.Errorf("create booking: %w", inner)

		if got := AsAppError(wrapped); got != inner {
			t.Errorf("expected the inner AppError, got %v", got)
		}
		if !IsAppError(wrapped) {
			t.Error("IsAppError should see through wrapping")
		}
		if !HasCode(wrapped, CodeConflict) {
			t.Error("HasCode should match the inner code")
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsAppError(errors.New("disk full"))
		if got.Code != CodeInternal || got.StatusCode() != http.StatusInternalServerError {
			t.Errorf("expected internal error, got %v", got)
		}
	})
}
