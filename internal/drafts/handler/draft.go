package handler

import (
	"net/http"

	"buffet/internal/drafts/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DraftHandler struct {
	service service.DraftService
	log     *logger.Logger
}

func NewDraftHandler(service service.DraftService, log *logger.Logger) *DraftHandler {
	return &DraftHandler{service: service, log: log}
}

func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	var input model.DraftInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		h.writeError(w, err, "Create")
		return
	}

	draft, err := h.service.Create(r.Context(), caller, &input)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}
	if err := httputil.WriteCreated(w, draft); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	var input model.DraftInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		h.writeError(w, err, "Update")
		return
	}

	draft, err := h.service.Update(r.Context(), caller, ps.ByName("id"), &input)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}
	if err := httputil.WriteSuccess(w, draft); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DraftHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	draft, err := h.service.Get(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}
	if err := httputil.WriteSuccess(w, draft); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DraftHandler) SchedulingURL(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	link, err := h.service.SchedulingURL(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "SchedulingURL")
		return
	}
	if err := httputil.WriteSuccess(w, link); err != nil {
		h.log.Error("failed to write success response", "handler", "SchedulingURL", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DraftHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DraftHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/drafts", middleware.RequireUser(h.Create))
	router.GET("/api/v1/drafts/id/:id", middleware.RequireUser(h.GetByID))
	router.PATCH("/api/v1/drafts/id/:id", middleware.RequireUser(h.Update))
	router.GET("/api/v1/drafts/id/:id/scheduling-url", middleware.RequireUser(h.SchedulingURL))
}
