package capacity

import (
	"time"

	"buffet/pkg/model"
)

// Window is one buffet service period. Hours are local and half-open: [StartHour, EndHour).
// Guest tallies count starts through TallyThroughHour inclusive, so a party
// seated at 22:15 still draws on dinner capacity.
type Window struct {
	Session          model.Session `json:"session"`
	Weekday          time.Weekday  `json:"-"`
	Label            string        `json:"label"`
	StartHour        int           `json:"-"`
	EndHour          int           `json:"-"`
	TallyThroughHour int           `json:"-"`
}

var Schedule = []Window{
	{Session: model.SessionSaturdayLunch, Weekday: time.Saturday, Label: "Lunch", StartHour: 12, EndHour: 15, TallyThroughHour: 14},
	{Session: model.SessionSaturdayDinner, Weekday: time.Saturday, Label: "Dinner", StartHour: 17, EndHour: 22, TallyThroughHour: 22},
	{Session: model.SessionSundayLunch, Weekday: time.Sunday, Label: "Lunch", StartHour: 12, EndHour: 18, TallyThroughHour: 17},
}

func WindowFor(s model.Session) (Window, bool) {
	for _, w := range Schedule {
		if w.Session == s {
			return w, true
		}
	}
	return Window{}, false
}

// WindowsOn lists the sessions served on the weekday of day.
func WindowsOn(day time.Time) []Window {
	var out []Window
	for _, w := range Schedule {
		if w.Weekday == day.Weekday() {
			out = append(out, w)
		}
	}
	return out
}

// SessionAt maps a start time to the session whose window contains its local hour.
func SessionAt(t time.Time, loc *time.Location) (model.Session, bool) {
	local := t.In(loc)
	hour := local.Hour()
	for _, w := range Schedule {
		if w.Weekday == local.Weekday() && hour >= w.StartHour && hour < w.EndHour {
			return w.Session, true
		}
	}
	return "", false
}

// TalliedSessionAt maps a start time to the session whose guest tally it joins.
func TalliedSessionAt(t time.Time, loc *time.Location) (model.Session, bool) {
	local := t.In(loc)
	hour := local.Hour()
	for _, w := range Schedule {
		if w.Weekday == local.Weekday() && hour >= w.StartHour && hour <= w.TallyThroughHour {
			return w.Session, true
		}
	}
	return "", false
}

// Bounds returns the window's start and end on day.
func (w Window) Bounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	return time.Date(y, m, d, w.StartHour, 0, 0, 0, loc), time.Date(y, m, d, w.EndHour, 0, 0, 0, loc)
}

// Midnight returns the start of t's calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ParseDay parses a YYYY-MM-DD date as local midnight.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, loc)
}
