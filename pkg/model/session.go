package model

// Session identifies one buffet service window.
type Session string

const (
	SessionSaturdayLunch  Session = "saturday_lunch"
	SessionSaturdayDinner Session = "saturday_dinner"
	SessionSundayLunch    Session = "sunday_lunch"
)

var Sessions = []Session{SessionSaturdayLunch, SessionSaturdayDinner, SessionSundayLunch}

func (s Session) Valid() bool {
	for _, v := range Sessions {
		if s == v {
			return true
		}
	}
	return false
}

// Meal reports whether the session draws from the lunch or dinner capacity.
func (s Session) Meal() string {
	if s == SessionSaturdayDinner {
		return "dinner"
	}
	return "lunch"
}
