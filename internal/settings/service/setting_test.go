package service

import (
	"context"
	"errors"
	"testing"

	"buffet/internal/settings/repository"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"
	"buffet/pkg/validation"
)

type mockSettingRepository struct {
	getFunc    func(ctx context.Context, key string, out any) error
	upsertFunc func(ctx context.Context, key string, value any) error
}

func (m *mockSettingRepository) Get(ctx context.Context, key string, out any) error {
	if m.getFunc != nil {
		return m.getFunc(ctx, key, out)
	}
	return repository.ErrNotFound
}

func (m *mockSettingRepository) Upsert(ctx context.Context, key string, value any) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, key, value)
	}
	return nil
}

func newService(repo repository.SettingRepository) SettingService {
	log := logger.Discard()
	return NewSettingService(repo, validation.New(log), log)
}

func TestSessionCapacity_DefaultsWhenMissing(t *testing.T) {
	got, err := newService(&mockSettingRepository{}).SessionCapacity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != model.DefaultSessionCapacity() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSessionCapacity_FillsZeroFields(t *testing.T) {
	repo := &mockSettingRepository{
		getFunc: func(ctx context.Context, key string, out any) error {
			*(out.(*model.SessionCapacity)) = model.SessionCapacity{Lunch: 50}
			return nil
		},
	}
	got, err := newService(repo).SessionCapacity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lunch != 50 || got.Dinner != 40 {
		t.Errorf("unexpected capacity %+v", got)
	}
}

func TestSessionCapacity_RepositoryError(t *testing.T) {
	repo := &mockSettingRepository{
		getFunc: func(ctx context.Context, key string, out any) error { return errors.New("boom") },
	}
	_, err := newService(repo).SessionCapacity(context.Background())
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestUpdateSessionCapacity(t *testing.T) {
	var savedKey string
	repo := &mockSettingRepository{
		upsertFunc: func(ctx context.Context, key string, value any) error {
			savedKey = key
			return nil
		},
	}
	svc := newService(repo)

	tests := []struct {
		name     string
		capacity model.SessionCapacity
		wantCode string
	}{
		{"valid", model.SessionCapacity{Lunch: 35, Dinner: 45}, ""},
		{"zero lunch", model.SessionCapacity{Lunch: 0, Dinner: 45}, apperrors.CodeValidation},
		{"dinner too large", model.SessionCapacity{Lunch: 30, Dinner: 501}, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSessionCapacity(context.Background(), tt.capacity)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if savedKey != model.SettingBuffetCapacity {
					t.Errorf("saved under %q", savedKey)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}
