package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"buffet/internal/scheduling"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const ProxyPath = "/api/v1/scheduling/event"

type proxyRequest struct {
	EventURI string `json:"eventUri"`
}

type proxyError struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

// ProxyHandler forwards a single event lookup to the scheduling provider for
// browser clients that cannot hold the API token.
type ProxyHandler struct {
	client        *scheduling.Client
	allowedOrigin string
	log           *logger.Logger
}

func NewProxyHandler(client *scheduling.Client, allowedOrigin string, log *logger.Logger) *ProxyHandler {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &ProxyHandler{client: client, allowedOrigin: allowedOrigin, log: log}
}

func (h *ProxyHandler) Preflight(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.setCORS(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *ProxyHandler) GetEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.setCORS(w)

	var req proxyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("Failed to read proxy request", "error", err)
		h.write(w, http.StatusInternalServerError, proxyError{Error: err.Error()})
		return
	}
	if req.EventURI == "" {
		h.write(w, http.StatusBadRequest, proxyError{Error: "eventUri is required"})
		return
	}

	event, err := h.client.GetEvent(r.Context(), req.EventURI)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	h.write(w, http.StatusOK, event)
}

func (h *ProxyHandler) writeFetchError(w http.ResponseWriter, err error) {
	var upstream *scheduling.UpstreamError
	switch {
	case errors.Is(err, scheduling.ErrNotConfigured):
		h.log.Error("Scheduling API token not configured")
		h.write(w, http.StatusInternalServerError, proxyError{Error: err.Error()})
	case errors.Is(err, scheduling.ErrHostNotAllowed):
		h.log.Warn("Rejected event URI", "error", err)
		h.write(w, http.StatusBadRequest, proxyError{Error: err.Error()})
	case errors.As(err, &upstream):
		h.write(w, upstream.StatusCode, proxyError{
			Error:   "Failed to fetch event from scheduling provider",
			Status:  upstream.StatusCode,
			Details: upstream.Body,
		})
	default:
		h.log.Error("Scheduling proxy failed", "error", err)
		h.write(w, http.StatusInternalServerError, proxyError{Error: err.Error()})
	}
}

func (h *ProxyHandler) setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Headers", middleware.CORSAllowHeaders)
}

func (h *ProxyHandler) write(w http.ResponseWriter, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", "GetEvent", "operation", "WriteJSON", "error", err)
	}
}

func (h *ProxyHandler) RegisterRoutes(router *httprouter.Router) {
	router.OPTIONS(ProxyPath, h.Preflight)
	router.POST(ProxyPath, h.GetEvent)
}
