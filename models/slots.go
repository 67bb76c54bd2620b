package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is minutes from midnight (e.g., 480 for 08:00). 1440 marks end of day.
type TimeOfDay int

const (
	Midnight  TimeOfDay = 0
	EndOfDay  TimeOfDay = 24 * 60
	slotHours           = 1
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS". "24:00" is accepted as end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" || s == "24:00:00" {
		return EndOfDay, nil
	}
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// Format renders "HH:MM".
func (t TimeOfDay) Format() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Clock renders "HH:MM:SS", the backend wire format.
func (t TimeOfDay) Clock() string {
	return t.Format() + ":00"
}

// On anchors the time of day to the calendar day of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location()).Add(time.Duration(t) * time.Minute)
}

// Slot is one of the fixed one-hour reservation windows.
type Slot struct {
	ID    string    `json:"id"`
	Start TimeOfDay `json:"start"` // minutes from midnight
	End   TimeOfDay `json:"end"`
	Label string    `json:"label"`
}

var catalog = buildCatalog(6, 23)

func buildCatalog(firstHour, lastHour int) []Slot {
	slots := make([]Slot, 0, lastHour-firstHour)
	for h := firstHour; h < lastHour; h += slotHours {
		start := TimeOfDay(h * 60)
		end := TimeOfDay((h + slotHours) * 60)
		slots = append(slots, Slot{
			ID:    fmt.Sprintf("%02d-%02d", h, h+slotHours),
			Start: start,
			End:   end,
			Label: start.Format() + " - " + end.Format(),
		})
	}
	return slots
}

// Catalog returns a copy of the 17 fixed slots covering 06:00-23:00, in order.
func Catalog() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

// SlotByID looks a slot up in the catalog.
func SlotByID(id string) (Slot, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// CatalogIndex returns the catalog position of id, or -1.
func CatalogIndex(id string) int {
	for i, s := range catalog {
		if s.ID == id {
			return i
		}
	}
	return -1
}
