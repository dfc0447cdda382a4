package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "buffet/pkg/errors"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := WriteError(rec, apperrors.CapacityReached("saturday_lunch", 4, 1)); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Code != apperrors.CodeCapacityReached {
		t.Errorf("expected code %s, got %s", apperrors.CodeCapacityReached, body.Code)
	}
	if body.Error == "" {
		t.Error("expected error message")
	}
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteError(rec, errors.New("socket closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "socket closed") {
		t.Error("internal error cause must not leak to clients")
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"guest_count":4}`, 0},
		{"empty", ``, http.StatusBadRequest},
		{"malformed", `{"guest_count":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v struct {
				GuestCount int `json:"guest_count"`
			}
			err := DecodeJSON(req, &v)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if v.GuestCount != 4 {
					t.Errorf("expected guest_count 4, got %d", v.GuestCount)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.AsAppError(err).StatusCode(); got != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?week=2&bad=x", nil)

	if v, err := QueryInt(req, "week", 0); err != nil || v != 2 {
		t.Errorf("expected 2, got %d (%v)", v, err)
	}
	if v, err := QueryInt(req, "missing", 7); err != nil || v != 7 {
		t.Errorf("expected fallback 7, got %d (%v)", v, err)
	}
	if _, err := QueryInt(req, "bad", 0); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
