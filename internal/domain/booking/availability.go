package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidClock = errors.New("invalid HH:MM value")

// Slot is one availability window produced by SliceDay.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
	BookingID *uuid.UUID
}

// SliceConfig controls day slicing. Open and Close are offsets from midnight,
// Step is the fixed 30-minute grid the source walks regardless of the
// requested SlotDuration, so durations longer than the step yield overlapping
// candidate windows.
type SliceConfig struct {
	Open         time.Duration
	Close        time.Duration
	Step         time.Duration
	SlotDuration time.Duration
}

func DefaultSliceConfig() SliceConfig {
	return SliceConfig{
		Open:         8 * time.Hour,
		Close:        20 * time.Hour,
		Step:         30 * time.Minute,
		SlotDuration: 30 * time.Minute,
	}
}

func (c SliceConfig) normalized() SliceConfig {
	if c.Step <= 0 {
		c.Step = 30 * time.Minute
	}
	if c.SlotDuration <= 0 {
		c.SlotDuration = c.Step
	}
	if c.Close <= c.Open {
		d := DefaultSliceConfig()
		c.Open, c.Close = d.Open, d.Close
	}
	return c
}

// SliceDay produces the ascending slot sequence for one calendar day. It is a
// pure function of its inputs: slicing the same day twice yields the same
// sequence. A slot is available iff no active booking on the resource
// overlaps its exact interval (buffer spacing applies to new bookings, not to
// read-only availability).
func SliceDay(day time.Time, resourceID uuid.UUID, cfg SliceConfig, existing []*Booking) []Slot {
	cfg = cfg.normalized()

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	open := midnight.Add(cfg.Open)
	close := midnight.Add(cfg.Close)

	var slots []Slot
	for start := open; !start.Add(cfg.SlotDuration).After(close); start = start.Add(cfg.Step) {
		slot := TimeSlot{start: start, end: start.Add(cfg.SlotDuration)}

		var bookingID *uuid.UUID
		if hit := FindConflict(existing, resourceID, slot, 0, uuid.Nil); hit != nil {
			id := hit.ID()
			bookingID = &id
		}

		slots = append(slots, Slot{
			Start:     slot.Start(),
			End:       slot.End(),
			Available: bookingID == nil,
			BookingID: bookingID,
		})
	}
	return slots
}

// ParseClock converts "HH:MM" to an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, ErrInvalidClock
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
