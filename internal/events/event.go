package events

import (
	"time"

	"buffet/pkg/model"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingStatusChanged Type = "booking.status_changed"
	BookingCancelled     Type = "booking.cancelled"
)

const SchemaVersion = "1"

// BookingEvent is the message published on every booking write.
type BookingEvent struct {
	Type           Type                `json:"type"`
	BookingID      string              `json:"booking_id"`
	UserID         string              `json:"user_id"`
	Status         model.BookingStatus `json:"status"`
	Session        model.Session       `json:"session,omitempty"`
	GuestCount     int                 `json:"guest_count"`
	GuestName      string              `json:"guest_name,omitempty"`
	GuestEmail     string              `json:"guest_email,omitempty"`
	ScheduledStart *time.Time          `json:"scheduled_start,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

func NewBookingEvent(t Type, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:           t,
		BookingID:      b.ID,
		UserID:         b.UserID,
		Status:         b.Status,
		Session:        b.Session,
		GuestCount:     b.GuestCount,
		GuestName:      b.GuestName,
		GuestEmail:     b.GuestEmail,
		ScheduledStart: b.ScheduledStart,
		OccurredAt:     time.Now().UTC(),
	}
}

// StatusEvent picks the event type for a status transition.
func StatusEvent(b *model.Booking) BookingEvent {
	if b.Status == model.StatusCancelled {
		return NewBookingEvent(BookingCancelled, b)
	}
	return NewBookingEvent(BookingStatusChanged, b)
}
