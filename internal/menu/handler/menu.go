package handler

import (
	"net/http"

	"buffet/internal/menu"
	apperrors "buffet/pkg/errors"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type MenuHandler struct {
	catalog *menu.Catalog
	log     *logger.Logger
}

func NewMenuHandler(catalog *menu.Catalog, log *logger.Logger) *MenuHandler {
	return &MenuHandler{catalog: catalog, log: log}
}

func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, h.catalog, "Menu")
}

func (h *MenuHandler) Restaurant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, map[string]any{
		"restaurant": h.catalog.Restaurant,
		"buffet":     h.catalog.Buffet,
	}, "Restaurant")
}

func (h *MenuHandler) Category(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := ps.ByName("slug")
	category, ok := h.catalog.Category(slug)
	if !ok {
		if err := httputil.WriteError(w, apperrors.NotFoundWithID("Menu category", slug)); err != nil {
			h.log.Error("failed to write error response", "handler", "Category", "operation", "WriteError", "error", err)
		}
		return
	}
	h.writeSuccess(w, category, "Category")
}

func (h *MenuHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	results := h.catalog.Search(r.URL.Query().Get("q"))
	if err := httputil.WriteList(w, results, int64(len(results))); err != nil {
		h.log.Error("failed to write list response", "handler", "Search", "operation", "WriteList", "error", err)
	}
}

func (h *MenuHandler) writeSuccess(w http.ResponseWriter, data any, handler string) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *MenuHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/menu", h.Menu)
	router.GET("/api/v1/menu/categories/:slug", h.Category)
	router.GET("/api/v1/menu/search", h.Search)
	router.GET("/api/v1/restaurant", h.Restaurant)
}
