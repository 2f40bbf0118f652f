package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reserva-api/internal/domain/booking"
	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/rules"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/clock"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/queries"
	"reserva-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// RuleViolationError carries the full violation list so the API layer can
// build a per-field error response. errors.Is(err, errs.ErrRuleViolation)
// holds for it.
type RuleViolationError struct {
	Violations []rules.Violation
}

func (e *RuleViolationError) Error() string {
	reasons := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		reasons[i] = fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return "rule set violation: " + strings.Join(reasons, "; ")
}

func (e *RuleViolationError) Is(target error) bool {
	return target == errs.ErrRuleViolation
}

type CreateBookingParams struct {
	ResourceID   uuid.UUID
	StartAt      time.Time
	EndAt        time.Time
	Purpose      string
	Notes        *string
	Attendees    int32
	LicensePlate *string
}

type RescheduleBookingParams struct {
	StartAt time.Time
	EndAt   time.Time
}

type BookingCommands interface {
	Create(ctx context.Context, actor shared.Actor, p CreateBookingParams) (*queries.BookingView, error)
	Reschedule(ctx context.Context, actor shared.Actor, id uuid.UUID, p RescheduleBookingParams) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	Restore(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	bookings    BookingRepository
	resources   ResourceRepository
	ruleSets    RuleSetRepository
	views       queries.BookingReadStore
	gate        shared.AuthorizationGate
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewBookingCommands(
	bookings BookingRepository,
	resources ResourceRepository,
	ruleSets RuleSetRepository,
	views queries.BookingReadStore,
	gate shared.AuthorizationGate,
	invalidator AvailabilityInvalidator,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		bookings:    bookings,
		resources:   resources,
		ruleSets:    ruleSets,
		views:       views,
		gate:        gate,
		invalidator: invalidator,
		clock:       clock,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, actor shared.Actor, p CreateBookingParams) (*queries.BookingView, error) {
	res, err := c.loadActiveResource(ctx, p.ResourceID)
	if err != nil {
		return nil, err
	}

	if !c.gate.CanActOnBooking(actor, actor.ID, res.SiteID(), shared.ActionCreate) {
		return nil, errs.ErrForbidden
	}

	now := c.clock.Now()
	slot, err := booking.NewTimeSlot(p.StartAt, p.EndAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInterval)
	}
	if !slot.Start().After(now) {
		return nil, errs.Mark(errs.New("start time must be in the future"), errs.ErrInvalidInterval)
	}

	rs, err := c.ruleSets.FindActive(ctx, res.SiteID(), res.TypeID())
	if err != nil {
		return nil, err
	}

	if err := c.validateAgainstRules(ctx, res, rs, actor.ID, now, slot, p.Attendees, p.LicensePlate); err != nil {
		return nil, err
	}
	if _, err := c.ensureNoConflict(ctx, res.ID(), slot, rs.BufferDuration(), uuid.Nil); err != nil {
		return nil, err
	}

	b := booking.NewBooking(res.ID(), actor.ID, slot, booking.NewPurpose(p.Purpose), p.Notes, p.Attendees, p.LicensePlate)

	id, err := c.createWithFreshCode(ctx, b)
	if err != nil {
		// The exclusion constraint is the authority; a concurrent insert that
		// slipped past the fast-path check surfaces here.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.ErrSchedulingConflict
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.invalidateDays(ctx, res.ID(), slot)

	return c.views.FindViewByID(ctx, id)
}

func (c *bookingCommandsImpl) Reschedule(ctx context.Context, actor shared.Actor, id uuid.UUID, p RescheduleBookingParams) (*queries.BookingView, error) {
	b, res, err := c.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.gate.CanActOnBooking(actor, b.UserID(), res.SiteID(), shared.ActionUpdate) {
		return nil, errs.ErrForbidden
	}

	now := c.clock.Now()
	slot, err := booking.NewTimeSlot(p.StartAt, p.EndAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInterval)
	}
	if !slot.Start().After(now) {
		return nil, errs.Mark(errs.New("start time must be in the future"), errs.ErrInvalidInterval)
	}

	rs, err := c.ruleSets.FindActive(ctx, res.SiteID(), res.TypeID())
	if err != nil {
		return nil, err
	}

	if err := c.validateAgainstRules(ctx, res, rs, b.UserID(), now, slot, b.Attendees(), b.LicensePlate()); err != nil {
		return nil, err
	}
	if _, err := c.ensureNoConflict(ctx, res.ID(), slot, rs.BufferDuration(), b.ID()); err != nil {
		return nil, err
	}

	oldSlot := b.Slot()
	if err := b.Reschedule(now, slot); err != nil {
		return nil, mapTransitionError(err)
	}

	if err := c.bookings.Update(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.ErrSchedulingConflict
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.invalidateDays(ctx, res.ID(), oldSlot, slot)

	return c.views.FindViewByID(ctx, b.ID())
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	b, res, err := c.loadBookingWithResource(ctx, id)
	if err != nil {
		return err
	}

	if !c.gate.CanActOnBooking(actor, b.UserID(), res.SiteID(), shared.ActionCancel) {
		return errs.ErrForbidden
	}

	if err := b.Cancel(c.clock.Now(), actor.ID); err != nil {
		return mapTransitionError(err)
	}

	if err := c.bookings.Update(ctx, b); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.invalidateDays(ctx, res.ID(), b.Slot())
	return nil
}

func (c *bookingCommandsImpl) Restore(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error) {
	b, res, err := c.loadBookingWithResource(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.gate.CanActOnBooking(actor, b.UserID(), res.SiteID(), shared.ActionRestore) {
		return nil, errs.ErrForbidden
	}

	rs, err := c.ruleSets.FindActive(ctx, res.SiteID(), res.TypeID())
	if err != nil {
		return nil, err
	}

	// Someone else may have claimed the slot since cancellation.
	if _, err := c.ensureNoConflict(ctx, res.ID(), b.Slot(), rs.BufferDuration(), b.ID()); err != nil {
		return nil, err
	}

	if err := b.Restore(c.clock.Now()); err != nil {
		return nil, mapTransitionError(err)
	}

	if err := c.bookings.Update(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.ErrSchedulingConflict
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.invalidateDays(ctx, res.ID(), b.Slot())

	return c.views.FindViewByID(ctx, b.ID())
}

// Booking codes are drawn from a small per-year space, so collisions with
// the bookings.code unique index are expected; regenerate and retry.
const maxCodeAttempts = 5

func (c *bookingCommandsImpl) createWithFreshCode(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	id, err := c.bookings.Create(ctx, b)
	for attempt := 1; attempt < maxCodeAttempts && infra.IsKind(err, infra.KindDuplicateKey); attempt++ {
		b.RegenerateCode()
		id, err = c.bookings.Create(ctx, b)
	}
	return id, err
}

func (c *bookingCommandsImpl) loadActiveResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, err := c.resources.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrResourceNotFound
		}
		return nil, errs.Mark(err, errs.ErrResourceNotFound)
	}
	if !res.IsActive() {
		return nil, errs.ErrResourceInactive
	}
	return res, nil
}

func (c *bookingCommandsImpl) loadBookingWithResource(ctx context.Context, id uuid.UUID) (*booking.Booking, *resource.Resource, error) {
	b, err := c.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrBookingNotFound
		}
		return nil, nil, errs.Mark(err, errs.ErrBookingNotFound)
	}

	res, err := c.resources.FindByID(ctx, b.ResourceID())
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrResourceNotFound)
	}

	return b, res, nil
}

// validateAgainstRules collects every violation (rule set plus type-driven
// request constraints) so the caller sees all problems at once.
func (c *bookingCommandsImpl) validateAgainstRules(
	ctx context.Context,
	res *resource.Resource,
	rs *rules.RuleSet,
	ownerID uuid.UUID,
	now time.Time,
	slot booking.TimeSlot,
	attendees int32,
	licensePlate *string,
) error {
	var violations []rules.Violation

	if err := res.ValidateRequest(attendees, licensePlate); err != nil {
		switch {
		case errors.Is(err, resource.ErrCapacityExceeded):
			violations = append(violations, rules.Violation{Field: "attendees", Reason: err.Error()})
		case errors.Is(err, resource.ErrLicensePlateNeeded):
			violations = append(violations, rules.Violation{Field: "license_plate", Reason: err.Error()})
		default:
			return err
		}
	}

	dayCount := 0
	if rs != nil && rs.MaxBookingsPerDay > 0 {
		n, err := c.bookings.CountActiveByUserAndDay(ctx, ownerID, res.TypeID(), slot.Start())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		dayCount = n
	}

	violations = append(violations, rules.Validate(rs, now, slot.Start(), slot.End(), dayCount)...)

	if len(violations) > 0 {
		return &RuleViolationError{Violations: violations}
	}
	return nil
}

func (c *bookingCommandsImpl) ensureNoConflict(
	ctx context.Context,
	resourceID uuid.UUID,
	slot booking.TimeSlot,
	buffer time.Duration,
	excludeID uuid.UUID,
) ([]*booking.Booking, error) {
	// Widen the fetched range by the buffer so padded neighbors are seen.
	existing, err := c.bookings.FindActiveByResourceAndRange(ctx, resourceID, slot.Start().Add(-buffer), slot.End().Add(buffer))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if booking.HasConflict(existing, resourceID, slot, buffer, excludeID) {
		return nil, errs.ErrSchedulingConflict
	}
	return existing, nil
}

func (c *bookingCommandsImpl) invalidateDays(ctx context.Context, resourceID uuid.UUID, slots ...booking.TimeSlot) {
	if c.invalidator == nil {
		return
	}

	var days []time.Time
	for _, s := range slots {
		days = append(days, s.Start())
		if s.End().Format("2006-01-02") != s.Start().Format("2006-01-02") {
			days = append(days, s.End())
		}
	}

	if err := c.invalidator.InvalidateDay(ctx, resourceID, days...); err != nil {
		slog.Warn("availability cache invalidation failed", "resource_id", resourceID, "error", err.Error())
	}
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, booking.ErrAlreadyStarted):
		return errs.Mark(err, errs.ErrBookingStarted)
	case errors.Is(err, booking.ErrNotCancellable),
		errors.Is(err, booking.ErrNotRestorable),
		errors.Is(err, booking.ErrInvalidStatus):
		return errs.Mark(err, errs.ErrStaleState)
	default:
		return err
	}
}
