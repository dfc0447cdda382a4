package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/middleware"
	"buffet/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

type fakeBookings struct {
	createErr error
	cancelErr error
	caller    middleware.Principal
	req       *model.ScheduledBookingRequest
	cancelled string
}

func (f *fakeBookings) CreateScheduled(ctx context.Context, caller middleware.Principal, req *model.ScheduledBookingRequest) (*model.Booking, error) {
	f.caller, f.req = caller, req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Booking{ID: "b1", UserID: caller.UserID}, nil
}

func (f *fakeBookings) CancelByInvitee(ctx context.Context, inviteeURI string) (*model.Booking, error) {
	f.cancelled = inviteeURI
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &model.Booking{ID: "b1", Status: model.StatusCancelled}, nil
}

type fakeOpener struct{}

func (fakeOpener) Open(token string) (string, string, error) {
	user, draft, ok := strings.Cut(token, ":")
	if !ok {
		return "", "", errors.New("malformed token")
	}
	return user, draft, nil
}

func notification(event, utm string) string {
	n := Notification{
		Event: event,
		Payload: Invitee{
			URI:      "https://api.calendly.com/scheduled_events/EV1/invitees/INV1",
			Event:    "https://api.calendly.com/scheduled_events/EV1",
			Email:    "guest@example.com",
			Tracking: Tracking{UTMContent: utm},
		},
	}
	b, _ := json.Marshal(n)
	return string(b)
}

func send(t *testing.T, bookings Bookings, body string, sign bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := httprouter.New()
	NewHandler(bookings, fakeOpener{}, secret, 5*time.Minute, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		req.Header.Set(middleware.SchedulerSignatureHeader, middleware.SignSchedulerPayload(secret, []byte(body), time.Now()))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func data(resp map[string]any) map[string]any {
	d, _ := resp["data"].(map[string]any)
	return d
}

func TestReceive_InviteeCreated(t *testing.T) {
	bookings := &fakeBookings{}
	rec, resp := send(t, bookings, notification(EventInviteeCreated, "user-1:draft-1"), true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "created", data(resp)["status"])
	assert.Equal(t, "user-1", bookings.caller.UserID)
	assert.Equal(t, "draft-1", bookings.req.DraftID)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/EV1", bookings.req.EventURI)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/EV1/invitees/INV1", bookings.req.InviteeURI)
}

func TestReceive_DuplicateIsSuccess(t *testing.T) {
	bookings := &fakeBookings{createErr: apperrors.Conflict("already booked")}
	rec, resp := send(t, bookings, notification(EventInviteeCreated, "user-1:draft-1"), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "duplicate", data(resp)["status"])
}

func TestReceive_CreateFailurePropagates(t *testing.T) {
	bookings := &fakeBookings{createErr: apperrors.Internal("Failed to create booking", errors.New("db down"))}
	rec, _ := send(t, bookings, notification(EventInviteeCreated, "user-1:draft-1"), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReceive_UnattributedInviteeIgnored(t *testing.T) {
	for _, utm := range []string{"", "garbage"} {
		bookings := &fakeBookings{}
		rec, resp := send(t, bookings, notification(EventInviteeCreated, utm), true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ignored", data(resp)["status"])
		assert.Nil(t, bookings.req, "utm %q", utm)
	}
}

func TestReceive_InviteeCanceled(t *testing.T) {
	bookings := &fakeBookings{}
	rec, resp := send(t, bookings, notification(EventInviteeCanceled, ""), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", data(resp)["status"])
	assert.Equal(t, "https://api.calendly.com/scheduled_events/EV1/invitees/INV1", bookings.cancelled)

	bookings = &fakeBookings{cancelErr: apperrors.NotFound("Booking for invitee")}
	rec, resp = send(t, bookings, notification(EventInviteeCanceled, ""), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored", data(resp)["status"])
}

func TestReceive_UnknownEventIgnored(t *testing.T) {
	rec, resp := send(t, &fakeBookings{}, notification("routing_form_submission.created", ""), true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored", data(resp)["status"])
}

func TestReceive_RejectsUnsignedRequests(t *testing.T) {
	bookings := &fakeBookings{}
	rec, _ := send(t, bookings, notification(EventInviteeCreated, "user-1:draft-1"), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, bookings.req)
}
