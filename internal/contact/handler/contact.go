package handler

import (
	"net/http"

	"buffet/internal/contact/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ContactHandler struct {
	service service.ContactService
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{service: service, log: log}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var msg model.ContactMessage
	if err := httputil.DecodeJSON(r, &msg); err != nil {
		h.writeError(w, err, "Submit")
		return
	}

	stored, err := h.service.Submit(r.Context(), &msg)
	if err != nil {
		h.writeError(w, err, "Submit")
		return
	}
	if err := httputil.WriteCreated(w, map[string]string{"id": stored.ID}); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/contact", h.Submit)
}
