package model

import "time"

type DraftStatus string

const (
	DraftSubmitted DraftStatus = "submitted"
	DraftBooked    DraftStatus = "booked"
)

// BookingDraft captures the reservation form before a time has been scheduled.
type BookingDraft struct {
	ID         string      `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string      `json:"user_id" bson:"user_id"`
	Name       string      `json:"name" bson:"name"`
	Email      string      `json:"email" bson:"email"`
	Phone      string      `json:"phone" bson:"phone"`
	GuestCount int         `json:"guest_count" bson:"guest_count"`
	Session    Session     `json:"session,omitempty" bson:"session,omitempty"`
	Notes      string      `json:"notes,omitempty" bson:"notes,omitempty"`
	Status     DraftStatus `json:"status" bson:"status"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" bson:"updated_at"`
}

// DraftInput is the reservation form as submitted by a guest.
type DraftInput struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required,min=10,max=20"`
	GuestCount     int     `json:"guest_count" validate:"required,min=1,max=20"`
	Session        Session `json:"session,omitempty" validate:"omitempty,buffet_session"`
	Notes          string  `json:"notes,omitempty" validate:"max=500"`
	ConfirmDetails bool    `json:"confirm_details" validate:"eq=true"`
}
