package commands

import (
	"context"
	"time"

	"reserva-api/internal/domain/booking"
	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/rules"
	"reserva-api/internal/domain/site"
	"reserva-api/internal/domain/user"

	"github.com/google/uuid"
)

// BookingRepository is the write-side port. FindActiveByResourceAndRange
// returns bookings in active statuses intersecting [from, to); callers widen
// the range by the rule set's buffer before asking.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	Update(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindActiveByResourceAndRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
	CountActiveByUserAndDay(ctx context.Context, userID, resourceTypeID uuid.UUID, day time.Time) (int, error)
}

type ResourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	FindSiteByID(ctx context.Context, id uuid.UUID) (*site.Site, error)
}

type RuleSetRepository interface {
	FindActive(ctx context.Context, siteID, resourceTypeID uuid.UUID) (*rules.RuleSet, error)
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AvailabilityInvalidator drops cached availability for the days a write
// touched. Failures are logged, never surfaced: the cache entry expires on
// its own TTL anyway.
type AvailabilityInvalidator interface {
	InvalidateDay(ctx context.Context, resourceID uuid.UUID, days ...time.Time) error
}
