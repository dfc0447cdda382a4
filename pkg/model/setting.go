package model

import "time"

const SettingBuffetCapacity = "buffet_capacity_by_session"

type Setting struct {
	Key       string    `json:"key" bson:"key"`
	Value     any       `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// SessionCapacity is the seat limit per lunch and dinner session.
type SessionCapacity struct {
	Lunch  int `json:"lunch" bson:"lunch" validate:"required,min=1,max=500"`
	Dinner int `json:"dinner" bson:"dinner" validate:"required,min=1,max=500"`
}

func DefaultSessionCapacity() SessionCapacity {
	return SessionCapacity{Lunch: 30, Dinner: 40}
}

// For returns the capacity that applies to session.
func (c SessionCapacity) For(s Session) int {
	if s.Meal() == "dinner" {
		return c.Dinner
	}
	return c.Lunch
}
