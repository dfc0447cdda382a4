// Package webhook receives invitee notifications from the scheduling provider.
package webhook

import (
	"context"
	"net/http"
	"time"

	apperrors "buffet/pkg/errors"
	httputil "buffet/pkg/http"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	Path = "/api/v1/webhooks/scheduling"

	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

type Notification struct {
	Event     string  `json:"event"`
	CreatedAt string  `json:"created_at"`
	Payload   Invitee `json:"payload"`
}

type Invitee struct {
	URI      string   `json:"uri"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Event    string   `json:"event"`
	Status   string   `json:"status"`
	Tracking Tracking `json:"tracking"`
}

type Tracking struct {
	UTMContent string `json:"utm_content"`
}

type Bookings interface {
	CreateScheduled(ctx context.Context, caller middleware.Principal, req *model.ScheduledBookingRequest) (*model.Booking, error)
	CancelByInvitee(ctx context.Context, inviteeURI string) (*model.Booking, error)
}

type TokenOpener interface {
	Open(token string) (userID string, draftID string, err error)
}

type Handler struct {
	bookings Bookings
	opener   TokenOpener
	secret   string
	maxSkew  time.Duration
	log      *logger.Logger
}

// NewHandler builds the webhook receiver. A nil opener leaves invitee.created
// notifications unattributed.
func NewHandler(bookings Bookings, opener TokenOpener, secret string, maxSkew time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		bookings: bookings,
		opener:   opener,
		secret:   secret,
		maxSkew:  maxSkew,
		log:      log,
	}
}

type result struct {
	Status    string `json:"status"`
	BookingID string `json:"booking_id,omitempty"`
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var n Notification
	if err := httputil.DecodeJSON(r, &n); err != nil {
		h.writeError(w, err)
		return
	}

	log := h.log.With("event", n.Event, "invitee_uri", n.Payload.URI, "request_id", middleware.RequestIDFromContext(r.Context()))

	var (
		res result
		err error
	)
	switch n.Event {
	case EventInviteeCreated:
		res, err = h.created(r.Context(), n.Payload, log)
	case EventInviteeCanceled:
		res, err = h.canceled(r.Context(), n.Payload, log)
	default:
		log.Debug("Ignoring webhook event")
		res = result{Status: "ignored"}
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.log.Error("failed to write success response", "handler", "Receive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) created(ctx context.Context, inv Invitee, log *logger.Logger) (result, error) {
	if h.opener == nil || inv.Tracking.UTMContent == "" {
		log.Warn("Invitee cannot be matched to a reservation")
		return result{Status: "ignored"}, nil
	}
	userID, draftID, err := h.opener.Open(inv.Tracking.UTMContent)
	if err != nil {
		log.Warn("Invalid reservation token on invitee", "error", err)
		return result{Status: "ignored"}, nil
	}

	booking, err := h.bookings.CreateScheduled(ctx, middleware.Principal{UserID: userID}, &model.ScheduledBookingRequest{
		DraftID:    draftID,
		EventURI:   inv.Event,
		InviteeURI: inv.URI,
	})
	switch {
	case err == nil:
		log.Info("Booking created from webhook", "booking_id", booking.ID, "user_id", userID)
		return result{Status: "created", BookingID: booking.ID}, nil
	case apperrors.HasCode(err, apperrors.CodeConflict):
		log.Info("Booking already recorded", "draft_id", draftID)
		return result{Status: "duplicate"}, nil
	default:
		log.Error("Failed to create booking from webhook", "draft_id", draftID, "error", err)
		return result{}, err
	}
}

func (h *Handler) canceled(ctx context.Context, inv Invitee, log *logger.Logger) (result, error) {
	booking, err := h.bookings.CancelByInvitee(ctx, inv.URI)
	switch {
	case err == nil:
		log.Info("Booking cancelled from webhook", "booking_id", booking.ID)
		return result{Status: "cancelled", BookingID: booking.ID}, nil
	case apperrors.HasCode(err, apperrors.CodeNotFound):
		log.Warn("No booking for cancelled invitee")
		return result{Status: "ignored"}, nil
	default:
		log.Error("Failed to cancel booking from webhook", "error", err)
		return result{}, err
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Receive", "operation", "WriteError", "error", writeErr)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.Handler(http.MethodPost, Path, middleware.SchedulerSignature(h.secret, h.maxSkew, h.log)(http.HandlerFunc(h.Receive)))
}
