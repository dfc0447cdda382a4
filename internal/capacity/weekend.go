package capacity

import "time"

const DefaultWeekends = 4

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func nextSaturday(day time.Time) time.Time {
	delta := (int(time.Saturday) - int(day.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return addDays(day, delta)
}

// UpcomingWeekendDays lists the next weekend days starting today, at most
// 2*weekends of them. On a Sunday the list starts with today.
func UpcomingWeekendDays(now time.Time, weekends int) []time.Time {
	if weekends <= 0 {
		return nil
	}
	today := Midnight(now, now.Location())
	limit := 2 * weekends
	days := make([]time.Time, 0, limit)

	var saturday time.Time
	switch today.Weekday() {
	case time.Saturday:
		saturday = today
	case time.Sunday:
		days = append(days, today)
		saturday = addDays(today, 6)
	default:
		saturday = nextSaturday(today)
	}

	for len(days) < limit {
		days = append(days, saturday)
		if len(days) < limit {
			days = append(days, addDays(saturday, 1))
		}
		saturday = addDays(saturday, 7)
	}
	return days
}

// WeekendOf returns the Saturday and Sunday of the weekend offset weeks ahead.
// On a Sunday, offset 0 is the weekend in progress.
func WeekendOf(now time.Time, offset int) (time.Time, time.Time) {
	today := Midnight(now, now.Location())
	var saturday time.Time
	switch today.Weekday() {
	case time.Saturday:
		saturday = today
	case time.Sunday:
		saturday = addDays(today, -1)
	default:
		saturday = nextSaturday(today)
	}
	saturday = addDays(saturday, 7*offset)
	return saturday, addDays(saturday, 1)
}

// UpcomingWeekend is the dashboard window. On a Sunday it covers today only.
func UpcomingWeekend(now time.Time) (time.Time, time.Time) {
	today := Midnight(now, now.Location())
	switch today.Weekday() {
	case time.Saturday:
		return today, addDays(today, 1)
	case time.Sunday:
		return today, today
	default:
		sat := nextSaturday(today)
		return sat, addDays(sat, 1)
	}
}
