package booking

import (
	"time"

	"github.com/google/uuid"
)

// HasConflict reports whether candidate overlaps any active booking on the
// resource. Bookings whose status is outside {confirmed, completed} never
// conflict, and excludeID lets an update skip the booking being moved.
//
// With buffer > 0 every existing interval is padded by buffer on both sides
// before the overlap test, so two bookings must be separated by at least that
// gap. With buffer == 0 a booking starting exactly at another's end is not a
// conflict (half-open intervals).
//
// This check is a fast-path courtesy. The exclusion constraint on the
// bookings table is what actually prevents double booking under concurrency.
func HasConflict(existing []*Booking, resourceID uuid.UUID, candidate TimeSlot, buffer time.Duration, excludeID uuid.UUID) bool {
	return FindConflict(existing, resourceID, candidate, buffer, excludeID) != nil
}

// FindConflict returns the first active booking overlapping candidate, or nil.
// Availability slicing uses the match to surface the occupying booking ID.
func FindConflict(existing []*Booking, resourceID uuid.UUID, candidate TimeSlot, buffer time.Duration, excludeID uuid.UUID) *Booking {
	for _, b := range existing {
		if b.ResourceID() != resourceID {
			continue
		}
		if !b.Status().IsActive() {
			continue
		}
		if excludeID != uuid.Nil && b.ID() == excludeID {
			continue
		}
		if candidate.Overlaps(b.Slot().Padded(buffer)) {
			return b
		}
	}
	return nil
}
