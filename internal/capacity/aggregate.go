package capacity

import (
	"fmt"
	"time"

	"buffet/pkg/model"
)

const LimitedThreshold = 10

// Tally is the guest total per session for one day.
type Tally map[model.Session]int

// Count sums guest counts of active bookings by session. Bookings without a
// start time or outside every tallied window are ignored.
func Count(bookings []*model.Booking, loc *time.Location) Tally {
	t := Tally{}
	for _, b := range bookings {
		if b == nil || b.ScheduledStart == nil || !b.Status.Active() {
			continue
		}
		if s, ok := TalliedSessionAt(*b.ScheduledStart, loc); ok {
			t[s] += b.GuestCount
		}
	}
	return t
}

type DayCapacity struct {
	Date             string `json:"date"`
	Weekday          string `json:"weekday"`
	LunchGuests      int    `json:"lunch_guests"`
	DinnerGuests     int    `json:"dinner_guests"`
	LunchCapacity    int    `json:"lunch_capacity"`
	DinnerCapacity   int    `json:"dinner_capacity"`
	LunchOverbooked  bool   `json:"lunch_overbooked"`
	DinnerOverbooked bool   `json:"dinner_overbooked"`
}

// Aggregate folds a day's tally into lunch and dinner totals. Sunday has no dinner.
func Aggregate(day time.Time, tally Tally, capacity model.SessionCapacity) DayCapacity {
	dc := DayCapacity{
		Date:    day.Format(time.DateOnly),
		Weekday: day.Weekday().String(),
	}
	for _, w := range WindowsOn(day) {
		guests := tally[w.Session]
		if w.Session.Meal() == "dinner" {
			dc.DinnerGuests += guests
			dc.DinnerCapacity = capacity.Dinner
		} else {
			dc.LunchGuests += guests
			dc.LunchCapacity = capacity.Lunch
		}
	}
	dc.LunchOverbooked = dc.LunchCapacity > 0 && dc.LunchGuests > dc.LunchCapacity
	dc.DinnerOverbooked = dc.DinnerCapacity > 0 && dc.DinnerGuests > dc.DinnerCapacity
	return dc
}

type Level string

const (
	LevelAvailable Level = "available"
	LevelLimited   Level = "limited"
	LevelFull      Level = "full"
)

type SlotAvailability struct {
	Session        model.Session `json:"session"`
	Label          string        `json:"label"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	Capacity       int           `json:"capacity"`
	BookedGuests   int           `json:"booked_guests"`
	AvailableSeats int           `json:"available_seats"`
	Level          Level         `json:"level"`
	Status         string        `json:"status"`
	Bookable       bool          `json:"bookable"`
}

type DayAvailability struct {
	Date    string             `json:"date"`
	Weekday string             `json:"weekday"`
	Past    bool               `json:"past"`
	Slots   []SlotAvailability `json:"slots"`
}

// Availability computes open seats for every session served on day.
// Days before today are never bookable.
func Availability(day time.Time, tally Tally, capacity model.SessionCapacity, now time.Time) DayAvailability {
	past := day.Before(Midnight(now, day.Location()))
	da := DayAvailability{
		Date:    day.Format(time.DateOnly),
		Weekday: day.Weekday().String(),
		Past:    past,
		Slots:   []SlotAvailability{},
	}
	for _, w := range WindowsOn(day) {
		start, end := w.Bounds(day)
		limit := capacity.For(w.Session)
		booked := tally[w.Session]
		seats := max(0, limit-booked)
		da.Slots = append(da.Slots, SlotAvailability{
			Session:        w.Session,
			Label:          w.Label,
			Start:          start,
			End:            end,
			Capacity:       limit,
			BookedGuests:   booked,
			AvailableSeats: seats,
			Level:          LevelFor(seats),
			Status:         SlotLabel(seats),
			Bookable:       !past && seats > 0,
		})
	}
	return da
}

func LevelFor(seats int) Level {
	switch {
	case seats <= 0:
		return LevelFull
	case seats <= LimitedThreshold:
		return LevelLimited
	default:
		return LevelAvailable
	}
}

// SlotLabel is the guest-facing seat message.
func SlotLabel(seats int) string {
	switch {
	case seats <= 0:
		return "Fully Booked"
	case seats <= 5:
		return fmt.Sprintf("Limited: %d seats left", seats)
	default:
		return fmt.Sprintf("Available: %d seats", seats)
	}
}
