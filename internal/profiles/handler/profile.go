package handler

import (
	"net/http"

	"buffet/internal/profiles/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProfileHandler struct {
	service service.ProfileService
	log     *logger.Logger
}

func NewProfileHandler(service service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, log: log}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	profile, err := h.service.Get(r.Context(), caller)
	if err != nil {
		h.writeError(w, err, "Get")
		return
	}
	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	var update model.ProfileUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, err, "Update")
		return
	}

	profile, err := h.service.Update(r.Context(), caller, &update)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}
	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ProfileHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/me/profile", middleware.RequireUser(h.Get))
	router.PUT("/api/v1/me/profile", middleware.RequireUser(h.Update))
}
