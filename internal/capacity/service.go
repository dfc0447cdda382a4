package capacity

import (
	"context"
	"sync"
	"time"

	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"
)

const MaxWeekOffset = 4

// BookingReader returns active bookings whose scheduled start is in [from, to).
type BookingReader interface {
	FindActiveInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

type CapacityProvider interface {
	SessionCapacity(ctx context.Context) (model.SessionCapacity, error)
}

type WeekendAvailability struct {
	Offset int               `json:"offset"`
	Days   []DayAvailability `json:"days"`
}

type Service interface {
	Overview(ctx context.Context) ([]DayCapacity, error)
	Weekend(ctx context.Context, offset int) (*WeekendAvailability, error)
	Check(ctx context.Context, day time.Time, session model.Session, guests int) (*SlotAvailability, error)
	Invalidate(ctx context.Context, times ...time.Time)
}

type capacityService struct {
	bookings BookingReader
	settings CapacityProvider
	cache    Cache
	loc      *time.Location
	weekends int
	now      func() time.Time
	log      *logger.Logger
}

func NewService(bookings BookingReader, settings CapacityProvider, cache Cache, loc *time.Location, weekends int, log *logger.Logger) Service {
	if cache == nil {
		cache = noopCache{}
	}
	if weekends <= 0 {
		weekends = DefaultWeekends
	}
	return &capacityService{
		bookings: bookings,
		settings: settings,
		cache:    cache,
		loc:      loc,
		weekends: weekends,
		now:      time.Now,
		log:      log,
	}
}

func (s *capacityService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *capacityService) Overview(ctx context.Context) ([]DayCapacity, error) {
	days := UpcomingWeekendDays(s.today(), s.weekends)

	capacity, err := s.settings.SessionCapacity(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := s.tallies(ctx, days)
	if err != nil {
		return nil, err
	}

	out := make([]DayCapacity, len(days))
	for i, d := range days {
		out[i] = Aggregate(d, tallies[i], capacity)
	}
	return out, nil
}

func (s *capacityService) Weekend(ctx context.Context, offset int) (*WeekendAvailability, error) {
	if offset < 0 || offset > MaxWeekOffset {
		return nil, apperrors.InvalidInput("week must be between 0 and 4")
	}

	now := s.today()
	sat, sun := WeekendOf(now, offset)
	days := []time.Time{sat, sun}

	capacity, err := s.settings.SessionCapacity(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := s.tallies(ctx, days)
	if err != nil {
		return nil, err
	}

	out := &WeekendAvailability{Offset: offset, Days: make([]DayAvailability, len(days))}
	for i, d := range days {
		out.Days[i] = Availability(d, tallies[i], capacity, now)
	}
	return out, nil
}

// Check reports the slot's availability and fails with CAPACITY_REACHED when
// guests exceed the open seats. It always reads through to the database.
func (s *capacityService) Check(ctx context.Context, day time.Time, session model.Session, guests int) (*SlotAvailability, error) {
	day = Midnight(day, s.loc)
	if _, ok := WindowFor(session); !ok {
		return nil, apperrors.InvalidInput("Unknown buffet session")
	}

	capacity, err := s.settings.SessionCapacity(ctx)
	if err != nil {
		return nil, err
	}
	tally, err := s.loadTally(ctx, day)
	if err != nil {
		return nil, err
	}

	da := Availability(day, tally, capacity, s.today())
	for i := range da.Slots {
		slot := da.Slots[i]
		if slot.Session != session {
			continue
		}
		if guests > slot.AvailableSeats {
			return &slot, apperrors.CapacityReached(string(session), guests, slot.AvailableSeats)
		}
		return &slot, nil
	}
	return nil, apperrors.InvalidInput("Session is not served on that day")
}

// Invalidate drops cached tallies for the days containing times.
func (s *capacityService) Invalidate(ctx context.Context, times ...time.Time) {
	NewDayInvalidator(s.cache, s.loc).Invalidate(ctx, times...)
}

// tallies loads each day concurrently, preferring cached entries.
func (s *capacityService) tallies(ctx context.Context, days []time.Time) ([]Tally, error) {
	out := make([]Tally, len(days))
	errs := make([]error, len(days))
	var wg sync.WaitGroup

	for i, d := range days {
		key := d.Format(time.DateOnly)
		if t, ok := s.cache.Get(ctx, key); ok {
			out[i] = t
			continue
		}
		wg.Add(1)
		go func(i int, d time.Time, key string) {
			defer wg.Done()
			t, err := s.loadTally(ctx, d)
			if err != nil {
				errs[i] = err
				return
			}
			out[i] = t
			s.cache.Set(ctx, key, t)
		}(i, d, key)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *capacityService) loadTally(ctx context.Context, day time.Time) (Tally, error) {
	from := Midnight(day, s.loc)
	to := addDays(from, 1)
	bookings, err := s.bookings.FindActiveInRange(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to load bookings for capacity", "day", from.Format(time.DateOnly), "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}
	return Count(bookings, s.loc), nil
}
