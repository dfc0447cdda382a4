package scheduling

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is the subset of a scheduled event the reservation flow needs.
// Location is passed through as the provider sent it.
type Event struct {
	URI       string          `json:"uri"`
	Name      string          `json:"name"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Status    string          `json:"status"`
	Location  json.RawMessage `json:"location,omitempty"`
}

type eventEnvelope struct {
	Resource Event `json:"resource"`
}

// Times parses the event's start and end.
func (e *Event) Times() (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_time %q: %w", e.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_time %q: %w", e.EndTime, err)
	}
	return start, end, nil
}

func (e *Event) Canceled() bool {
	return e.Status == "canceled"
}
