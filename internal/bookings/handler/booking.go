package handler

import (
	"net/http"

	"buffet/internal/bookings/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) CreateScheduled(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	var req model.ScheduledBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err, "CreateScheduled")
		return
	}

	booking, err := h.service.CreateScheduled(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "CreateScheduled")
		return
	}
	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateScheduled", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	var req model.SlotBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err, "CreateSlot")
		return
	}

	booking, err := h.service.CreateSlot(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "CreateSlot")
		return
	}
	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSlot", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	booking, err := h.service.Get(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}
	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	bookings, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		h.writeError(w, err, "ListMine")
		return
	}
	if err := httputil.WriteList(w, bookings, int64(len(bookings))); err != nil {
		h.log.Error("failed to write list response", "handler", "ListMine", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := middleware.PrincipalFromContext(r.Context())

	booking, err := h.service.Cancel(r.Context(), caller, ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}
	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", middleware.RequireUser(h.CreateSlot))
	router.POST("/api/v1/bookings/scheduled", middleware.RequireUser(h.CreateScheduled))
	router.GET("/api/v1/bookings/id/:id", middleware.RequireUser(h.GetByID))
	router.GET("/api/v1/me/bookings", middleware.RequireUser(h.ListMine))
	router.POST("/api/v1/me/bookings/id/:id/cancel", middleware.RequireUser(h.Cancel))
}
