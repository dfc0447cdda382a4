package handler

import (
	"net/http"

	"buffet/internal/settings/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SettingHandler struct {
	service service.SettingService
	log     *logger.Logger
}

func NewSettingHandler(service service.SettingService, log *logger.Logger) *SettingHandler {
	return &SettingHandler{service: service, log: log}
}

func (h *SettingHandler) GetCapacity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	capacity, err := h.service.SessionCapacity(r.Context())
	if err != nil {
		h.writeError(w, err, "GetCapacity")
		return
	}
	if err := httputil.WriteSuccess(w, capacity); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCapacity", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.SessionCapacity
	if err := httputil.DecodeJSON(r, &input); err != nil {
		h.writeError(w, err, "UpdateCapacity")
		return
	}

	capacity, err := h.service.UpdateSessionCapacity(r.Context(), input)
	if err != nil {
		h.writeError(w, err, "UpdateCapacity")
		return
	}
	if err := httputil.WriteSuccess(w, capacity); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateCapacity", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SettingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/settings/capacity", middleware.RequireAdmin(h.GetCapacity))
	router.PUT("/api/v1/admin/settings/capacity", middleware.RequireAdmin(h.UpdateCapacity))
}
