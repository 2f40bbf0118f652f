package booking

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotCancellable = errors.New("only future confirmed bookings can be cancelled")
	ErrNotRestorable  = errors.New("only cancelled bookings can be restored")
	ErrAlreadyStarted = errors.New("booking has already started")
	ErrInvalidStatus  = errors.New("invalid booking status")
)

type Booking struct {
	id            uuid.UUID
	code          string
	resourceID    uuid.UUID
	userID        uuid.UUID
	slot          TimeSlot
	status        Status
	purpose       Purpose
	notes         *string
	attendees     int32
	licensePlate  *string
	cancelledAt   *time.Time
	cancelledBy   *uuid.UUID
	createdBy     uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
}

func NewBooking(
	resourceID, userID uuid.UUID,
	slot TimeSlot,
	purpose Purpose,
	notes *string,
	attendees int32,
	licensePlate *string,
) *Booking {
	if attendees < 1 {
		attendees = 1
	}
	return &Booking{
		id:           uuid.New(),
		code:         NewCode(slot.Start().Year()),
		resourceID:   resourceID,
		userID:       userID,
		slot:         slot,
		status:       StatusConfirmed,
		purpose:      purpose,
		notes:        notes,
		attendees:    attendees,
		licensePlate: licensePlate,
		createdBy:    userID,
	}
}

func Reconstruct(
	id uuid.UUID,
	code string,
	resourceID, userID uuid.UUID,
	slot TimeSlot,
	status Status,
	purpose Purpose,
	notes *string,
	attendees int32,
	licensePlate *string,
	cancelledAt *time.Time,
	cancelledBy *uuid.UUID,
	createdBy uuid.UUID,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		code:         code,
		resourceID:   resourceID,
		userID:       userID,
		slot:         slot,
		status:       status,
		purpose:      purpose,
		notes:        notes,
		attendees:    attendees,
		licensePlate: licensePlate,
		cancelledAt:  cancelledAt,
		cancelledBy:  cancelledBy,
		createdBy:    createdBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// NewCode builds a human-facing booking code. Uniqueness is best-effort here;
// the bookings.code unique index is the authority.
func NewCode(year int) string {
	return fmt.Sprintf("BOOK-%d-%04d", year, rand.IntN(9999)+1)
}

// RegenerateCode draws a fresh code after the unique index rejected the
// current one.
func (b *Booking) RegenerateCode() {
	b.code = NewCode(b.slot.Start().Year())
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) Code() string             { return b.code }
func (b *Booking) ResourceID() uuid.UUID    { return b.resourceID }
func (b *Booking) UserID() uuid.UUID        { return b.userID }
func (b *Booking) Slot() TimeSlot           { return b.slot }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) Purpose() Purpose         { return b.purpose }
func (b *Booking) Notes() *string           { return b.notes }
func (b *Booking) Attendees() int32         { return b.attendees }
func (b *Booking) LicensePlate() *string    { return b.licensePlate }
func (b *Booking) CancelledAt() *time.Time  { return b.cancelledAt }
func (b *Booking) CancelledBy() *uuid.UUID  { return b.cancelledBy }
func (b *Booking) CreatedBy() uuid.UUID     { return b.createdBy }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }

func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) HasStarted(now time.Time) bool {
	return !b.slot.Start().After(now)
}

func (b *Booking) HasExpired(now time.Time) bool {
	return now.After(b.slot.End())
}

// Cancel marks the booking cancelled. Only future confirmed bookings qualify;
// in-progress and past bookings keep their interval occupied.
func (b *Booking) Cancel(now time.Time, by uuid.UUID) error {
	if b.status != StatusConfirmed {
		return ErrNotCancellable
	}
	if b.HasStarted(now) {
		return ErrAlreadyStarted
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.cancelledBy = &by
	return nil
}

// Restore returns a cancelled booking to confirmed. Conflict re-checking is
// the caller's job: another booking may have claimed the slot meanwhile.
func (b *Booking) Restore(now time.Time) error {
	if b.status != StatusCancelled {
		return ErrNotRestorable
	}
	if b.HasStarted(now) {
		return ErrAlreadyStarted
	}
	b.status = StatusConfirmed
	b.cancelledAt = nil
	b.cancelledBy = nil
	return nil
}

// Reschedule moves a confirmed future booking to a new slot. Conflict and
// rule re-validation against the new slot happen in the usecase layer.
func (b *Booking) Reschedule(now time.Time, slot TimeSlot) error {
	if b.status != StatusConfirmed {
		return ErrInvalidStatus
	}
	if b.HasStarted(now) {
		return ErrAlreadyStarted
	}
	b.slot = slot
	return nil
}

// Complete and MarkNoShow are terminal transitions driven by an external
// sweep after the booking's end passes, never by request handling.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrInvalidStatus
	}
	if !b.HasExpired(now) {
		return ErrInvalidStatus
	}
	b.status = StatusCompleted
	return nil
}

func (b *Booking) MarkNoShow(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrInvalidStatus
	}
	if !b.HasExpired(now) {
		return ErrInvalidStatus
	}
	b.status = StatusNoShow
	return nil
}
