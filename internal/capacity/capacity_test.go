package capacity

import (
	"fmt"
	"testing"
	"time"

	"buffet/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var est = time.FixedZone("EST", -5*60*60)

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, est)
}

func booking(start time.Time, guests int, status model.BookingStatus) *model.Booking {
	return &model.Booking{ScheduledStart: &start, GuestCount: guests, Status: status}
}

func TestSessionAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want model.Session
		ok   bool
	}{
		{"saturday lunch opens", at(2026, 10, 24, 12, 0), model.SessionSaturdayLunch, true},
		{"saturday lunch last hour", at(2026, 10, 24, 14, 59), model.SessionSaturdayLunch, true},
		{"saturday gap", at(2026, 10, 24, 15, 0), "", false},
		{"saturday dinner", at(2026, 10, 24, 19, 30), model.SessionSaturdayDinner, true},
		{"saturday dinner end is exclusive", at(2026, 10, 24, 22, 0), "", false},
		{"sunday lunch late", at(2026, 10, 25, 17, 45), model.SessionSundayLunch, true},
		{"sunday evening has no dinner", at(2026, 10, 25, 19, 0), "", false},
		{"weekday", at(2026, 10, 23, 13, 0), "", false},
		{"utc instant bucketed locally", time.Date(2026, 10, 24, 17, 0, 0, 0, time.UTC), model.SessionSaturdayLunch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SessionAt(tt.at, est)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func dates(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

func TestUpcomingWeekendDays(t *testing.T) {
	t.Run("weekday starts next saturday", func(t *testing.T) {
		days := UpcomingWeekendDays(at(2026, 10, 21, 9, 0), 4)
		assert.Equal(t, []string{
			"2026-10-24", "2026-10-25", "2026-10-31", "2026-11-01",
			"2026-11-07", "2026-11-08", "2026-11-14", "2026-11-15",
		}, dates(days))
		for _, d := range days {
			assert.True(t, IsWeekend(d))
			assert.Equal(t, 0, d.Hour())
		}
	})

	t.Run("saturday starts today", func(t *testing.T) {
		days := UpcomingWeekendDays(at(2026, 10, 24, 18, 0), 4)
		require.Len(t, days, 8)
		assert.Equal(t, "2026-10-24", days[0].Format(time.DateOnly))
	})

	t.Run("sunday includes today and caps at eight", func(t *testing.T) {
		days := UpcomingWeekendDays(at(2026, 10, 25, 11, 0), 4)
		assert.Equal(t, []string{
			"2026-10-25", "2026-10-31", "2026-11-01", "2026-11-07",
			"2026-11-08", "2026-11-14", "2026-11-15", "2026-11-21",
		}, dates(days))
	})

	t.Run("zero weekends", func(t *testing.T) {
		assert.Empty(t, UpcomingWeekendDays(at(2026, 10, 21, 9, 0), 0))
	})
}

func TestWeekendOf(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		offset int
		sat    string
	}{
		{"weekday", at(2026, 10, 21, 9, 0), 0, "2026-10-24"},
		{"weekday two ahead", at(2026, 10, 21, 9, 0), 2, "2026-11-07"},
		{"saturday", at(2026, 10, 24, 9, 0), 0, "2026-10-24"},
		{"sunday is current weekend", at(2026, 10, 25, 9, 0), 0, "2026-10-24"},
		{"sunday next", at(2026, 10, 25, 9, 0), 1, "2026-10-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sat, sun := WeekendOf(tt.now, tt.offset)
			assert.Equal(t, tt.sat, sat.Format(time.DateOnly))
			assert.Equal(t, time.Sunday, sun.Weekday())
			assert.Equal(t, sat.AddDate(0, 0, 1), sun)
		})
	}
}

func TestUpcomingWeekend(t *testing.T) {
	sat, sun := UpcomingWeekend(at(2026, 10, 22, 9, 0))
	assert.Equal(t, "2026-10-24", sat.Format(time.DateOnly))
	assert.Equal(t, "2026-10-25", sun.Format(time.DateOnly))

	sat, sun = UpcomingWeekend(at(2026, 10, 24, 9, 0))
	assert.Equal(t, "2026-10-24", sat.Format(time.DateOnly))
	assert.Equal(t, "2026-10-25", sun.Format(time.DateOnly))

	sat, sun = UpcomingWeekend(at(2026, 10, 25, 9, 0))
	assert.Equal(t, "2026-10-25", sat.Format(time.DateOnly))
	assert.Equal(t, sat, sun)
}

func TestTalliedSessionAt_DinnerCountsHourTwentyTwo(t *testing.T) {
	got, ok := TalliedSessionAt(at(2026, 10, 24, 22, 15), est)
	assert.True(t, ok)
	assert.Equal(t, model.SessionSaturdayDinner, got)

	_, ok = TalliedSessionAt(at(2026, 10, 24, 23, 0), est)
	assert.False(t, ok)
	_, ok = TalliedSessionAt(at(2026, 10, 24, 15, 0), est)
	assert.False(t, ok, "lunch tally stays half-open")
	_, ok = TalliedSessionAt(at(2026, 10, 25, 18, 0), est)
	assert.False(t, ok)
}

func TestCountAndAggregate(t *testing.T) {
	saturday := at(2026, 10, 24, 0, 0)
	bookings := []*model.Booking{
		booking(at(2026, 10, 24, 12, 30), 4, model.StatusConfirmed),
		booking(at(2026, 10, 24, 13, 0), 6, model.StatusPending),
		booking(at(2026, 10, 24, 18, 0), 10, model.StatusConfirmed),
		booking(at(2026, 10, 24, 18, 0), 20, model.StatusCancelled),
		booking(at(2026, 10, 24, 16, 0), 3, model.StatusConfirmed),
		booking(at(2026, 10, 24, 22, 15), 2, model.StatusConfirmed),
		booking(at(2026, 10, 24, 23, 0), 5, model.StatusConfirmed),
		{GuestCount: 8, Status: model.StatusPending},
		nil,
	}

	tally := Count(bookings, est)
	assert.Equal(t, 10, tally[model.SessionSaturdayLunch])
	assert.Equal(t, 12, tally[model.SessionSaturdayDinner])

	dc := Aggregate(saturday, tally, model.SessionCapacity{Lunch: 8, Dinner: 40})
	assert.Equal(t, "2026-10-24", dc.Date)
	assert.Equal(t, 10, dc.LunchGuests)
	assert.Equal(t, 12, dc.DinnerGuests)
	assert.Equal(t, 40, dc.DinnerCapacity)
	assert.True(t, dc.LunchOverbooked)
	assert.False(t, dc.DinnerOverbooked)

	sunday := Aggregate(at(2026, 10, 25, 0, 0), Tally{model.SessionSundayLunch: 5}, model.DefaultSessionCapacity())
	assert.Equal(t, 5, sunday.LunchGuests)
	assert.Equal(t, 30, sunday.LunchCapacity)
	assert.Zero(t, sunday.DinnerCapacity)
}

func TestAvailability(t *testing.T) {
	saturday := at(2026, 10, 24, 0, 0)
	capacity := model.SessionCapacity{Lunch: 30, Dinner: 40}
	tally := Tally{model.SessionSaturdayLunch: 25, model.SessionSaturdayDinner: 45}

	da := Availability(saturday, tally, capacity, at(2026, 10, 21, 10, 0))
	require.Len(t, da.Slots, 2)

	lunch, dinner := da.Slots[0], da.Slots[1]
	assert.Equal(t, 5, lunch.AvailableSeats)
	assert.Equal(t, LevelLimited, lunch.Level)
	assert.Equal(t, "Limited: 5 seats left", lunch.Status)
	assert.True(t, lunch.Bookable)
	assert.Equal(t, at(2026, 10, 24, 12, 0), lunch.Start)
	assert.Equal(t, at(2026, 10, 24, 15, 0), lunch.End)

	assert.Equal(t, 0, dinner.AvailableSeats)
	assert.Equal(t, LevelFull, dinner.Level)
	assert.Equal(t, "Fully Booked", dinner.Status)
	assert.False(t, dinner.Bookable)

	past := Availability(saturday, Tally{}, capacity, at(2026, 10, 25, 10, 0))
	assert.True(t, past.Past)
	for _, s := range past.Slots {
		assert.False(t, s.Bookable, s.Session)
	}

	sunday := Availability(at(2026, 10, 25, 0, 0), Tally{}, capacity, at(2026, 10, 21, 10, 0))
	require.Len(t, sunday.Slots, 1)
	assert.Equal(t, model.SessionSundayLunch, sunday.Slots[0].Session)
	assert.Equal(t, LevelAvailable, sunday.Slots[0].Level)
}

func TestSlotLabel(t *testing.T) {
	for seats, want := range map[int]string{
		0:  "Fully Booked",
		-3: "Fully Booked",
		1:  "Limited: 1 seats left",
		5:  "Limited: 5 seats left",
		6:  "Available: 6 seats",
		30: fmt.Sprintf("Available: %d seats", 30),
	} {
		assert.Equal(t, want, SlotLabel(seats))
	}
}
