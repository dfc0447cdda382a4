package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"buffet/internal/menu"
	"buffet/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func newRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	catalog, err := menu.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	router := httprouter.New()
	NewMenuHandler(catalog, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestMenuRoutes(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/menu", http.StatusOK},
		{"/api/v1/restaurant", http.StatusOK},
		{"/api/v1/menu/categories/desserts", http.StatusOK},
		{"/api/v1/menu/categories/pizza", http.StatusNotFound},
		{"/api/v1/menu/search?q=paya", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSearch_ReturnsCategory(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu/search?q=paya", nil))

	var body struct {
		Data []struct {
			Category string `json:"category"`
			Name     string `json:"name"`
		} `json:"data"`
		TotalCount int64 `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalCount != 1 || body.Data[0].Category != "sides-gravies" || body.Data[0].Name != "Paya" {
		t.Errorf("unexpected result %+v", body)
	}
}
