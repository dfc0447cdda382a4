package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
	StatusDraft     BookingStatus = "draft"
)

var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
	StatusDraft,
}

// ActiveStatuses are the statuses whose guests count against session capacity.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type BookingSource string

const (
	SourceScheduler BookingSource = "scheduler"
	SourceWebsite   BookingSource = "website"
	SourceAdmin     BookingSource = "admin"
)

type Booking struct {
	ID                  string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID              string        `json:"user_id" bson:"user_id" validate:"required"`
	DraftID             string        `json:"draft_id,omitempty" bson:"draft_id,omitempty"`
	Status              BookingStatus `json:"status" bson:"status" validate:"required,booking_status"`
	Source              BookingSource `json:"booking_source" bson:"booking_source" validate:"required,oneof=scheduler website admin"`
	Session             Session       `json:"session,omitempty" bson:"session,omitempty" validate:"omitempty,buffet_session"`
	ScheduledStart      *time.Time    `json:"scheduled_start" bson:"scheduled_start"`
	ScheduledEnd        *time.Time    `json:"scheduled_end" bson:"scheduled_end"`
	GuestCount          int           `json:"guest_count" bson:"guest_count" validate:"required,min=1,max=20"`
	GuestName           string        `json:"guest_name,omitempty" bson:"guest_name,omitempty" validate:"max=100"`
	GuestEmail          string        `json:"guest_email,omitempty" bson:"guest_email,omitempty" validate:"omitempty,email"`
	Phone               string        `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Notes               string        `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=500"`
	SchedulerEventURI   string        `json:"scheduler_event_uri,omitempty" bson:"scheduler_event_uri,omitempty" validate:"omitempty,url"`
	SchedulerInviteeURI string        `json:"scheduler_invitee_uri,omitempty" bson:"scheduler_invitee_uri,omitempty" validate:"omitempty,url"`
	CreatedAt           time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" bson:"updated_at"`
}

// ScheduledBookingRequest attaches a draft to an event booked through the scheduling widget.
type ScheduledBookingRequest struct {
	DraftID    string `json:"draft_id" validate:"required,mongodb"`
	EventURI   string `json:"event_uri" validate:"required,url"`
	InviteeURI string `json:"invitee_uri" validate:"omitempty,url"`
}

// SlotBookingRequest books a draft directly into a buffet session.
type SlotBookingRequest struct {
	DraftID string  `json:"draft_id" validate:"required,mongodb"`
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Session Session `json:"session" validate:"required,buffet_session"`
}

type StatusUpdate struct {
	Status BookingStatus `json:"status" validate:"required,booking_status"`
}

// AdminBookingRow is a booking joined with its owner's profile.
type AdminBookingRow struct {
	Booking
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
