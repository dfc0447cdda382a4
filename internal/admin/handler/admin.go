package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"buffet/internal/admin/service"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service service.AdminService
	loc     *time.Location
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, loc *time.Location, log *logger.Logger) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		service: service,
		loc:     loc,
		log:     log,
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dash, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, err, "Dashboard")
		return
	}
	if err := httputil.WriteSuccess(w, dash); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) Bookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rows, err := h.service.Bookings(r.Context())
	if err != nil {
		h.writeError(w, err, "Bookings")
		return
	}
	if err := httputil.WriteList(w, rows, int64(len(rows))); err != nil {
		h.log.Error("failed to write list response", "handler", "Bookings", "operation", "WriteList", "error", err)
	}
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.StatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, err, "UpdateStatus")
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, err, "UpdateStatus")
		return
	}
	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf); err != nil {
		h.writeError(w, err, "Export")
		return
	}

	filename := service.ExportFilename(time.Now().In(h.loc))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error("failed to write csv export", "handler", "Export", "operation", "WriteTo", "error", err)
	}
}

func (h *AdminHandler) Capacity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days, err := h.service.Capacity(r.Context())
	if err != nil {
		h.writeError(w, err, "Capacity")
		return
	}
	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "Capacity", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/admin/dashboard", middleware.RequireAdmin(h.Dashboard))
	router.GET("/api/v1/admin/bookings", middleware.RequireAdmin(h.Bookings))
	router.GET("/api/v1/admin/bookings/export", middleware.RequireAdmin(h.Export))
	router.PATCH("/api/v1/admin/bookings/id/:id/status", middleware.RequireAdmin(h.UpdateStatus))
	router.GET("/api/v1/admin/capacity", middleware.RequireAdmin(h.Capacity))
}
