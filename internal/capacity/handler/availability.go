package handler

import (
	"net/http"

	"buffet/internal/capacity"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service capacity.Service
	log     *logger.Logger
}

func NewAvailabilityHandler(service capacity.Service, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, log: log}
}

func (h *AvailabilityHandler) Weekend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	week, err := httputil.QueryInt(r, "week", 0)
	if err != nil {
		h.writeError(w, err, "Weekend")
		return
	}

	result, err := h.service.Weekend(r.Context(), week)
	if err != nil {
		h.writeError(w, err, "Weekend")
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Weekend", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Weekend)
}
