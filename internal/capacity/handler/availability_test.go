package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buffet/internal/capacity"
	"buffet/pkg/logger"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	weeks []int
}

func (s *recordingService) Overview(ctx context.Context) ([]capacity.DayCapacity, error) {
	return nil, nil
}

func (s *recordingService) Weekend(ctx context.Context, offset int) (*capacity.WeekendAvailability, error) {
	s.weeks = append(s.weeks, offset)
	return &capacity.WeekendAvailability{Offset: offset}, nil
}

func (s *recordingService) Check(ctx context.Context, day time.Time, session model.Session, guests int) (*capacity.SlotAvailability, error) {
	return nil, nil
}

func (s *recordingService) Invalidate(ctx context.Context, times ...time.Time) {}

func TestWeekend_ReadsWeekQuery(t *testing.T) {
	svc := &recordingService{}
	router := httprouter.New()
	NewAvailabilityHandler(svc, logger.Discard()).RegisterRoutes(router)

	for _, target := range []string{"/api/v1/availability", "/api/v1/availability?week=2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code, target)
	}
	assert.Equal(t, []int{0, 2}, svc.weeks)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability?week=next", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
