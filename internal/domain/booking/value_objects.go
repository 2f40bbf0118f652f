package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("start time must be before end time")

// TimeSlot is a half-open interval [start, end). The end instant is excluded
// so back-to-back bookings never touch.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidInterval
	}

	return TimeSlot{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) DurationMinutes() int {
	return int(ts.Duration() / time.Minute)
}

// Overlaps applies the half-open interval test: [s1,e1) and [s2,e2) overlap
// iff s1 < e2 && e1 > s2. A slot starting exactly at another's end does not
// overlap it.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

// Padded widens the slot by buffer on both sides. Used to enforce minimum
// spacing between bookings on the same resource.
func (ts TimeSlot) Padded(buffer time.Duration) TimeSlot {
	if buffer <= 0 {
		return ts
	}
	return TimeSlot{
		start: ts.start.Add(-buffer),
		end:   ts.end.Add(buffer),
	}
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

type Purpose struct {
	value string
}

func NewPurpose(value string) Purpose {
	return Purpose{value: value}
}

func (p Purpose) String() string {
	return p.value
}

func (p Purpose) IsEmpty() bool {
	return p.value == ""
}
