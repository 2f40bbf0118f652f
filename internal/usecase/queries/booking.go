package queries

import (
	"context"
	"time"

	"reserva-api/internal/domain/user"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/errs"
	"reserva-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	ResourceCode string     `json:"resource_code"`
	ResourceName string     `json:"resource_name"`
	SiteID       uuid.UUID  `json:"site_id"`
	SiteCode     string     `json:"site_code"`
	UserID       uuid.UUID  `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	StartAt      time.Time  `json:"start_at"`
	EndAt        time.Time  `json:"end_at"`
	Status       string     `json:"status"`
	Purpose      string     `json:"purpose"`
	Notes        *string    `json:"notes,omitempty"`
	Attendees    int32      `json:"attendees"`
	LicensePlate *string    `json:"license_plate,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceCode string    `json:"resource_code"`
	ResourceName string    `json:"resource_name"`
	SiteCode     string    `json:"site_code"`
	UserID       uuid.UUID `json:"user_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Status       string    `json:"status"`
	Purpose      string    `json:"purpose"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter mirrors the booking index filters: site, resource code
// fragment, resource type, status, date range over start_at, owner.
type ListFilter struct {
	SiteID           *uuid.UUID
	SiteCode         string
	ResourceCode     string
	ResourceTypeCode string
	Status           string
	UserID           *uuid.UUID
	StartDate        *time.Time
	EndDate          *time.Time
	Limit            int32
	Offset           int32
}

type BookingReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, f ListFilter) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, actor shared.Actor, f ListFilter) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	gate  shared.AuthorizationGate
}

func NewBookingQueries(store BookingReadStore, gate shared.AuthorizationGate) BookingQueries {
	return &bookingQueriesImpl{store: store, gate: gate}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindViewByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, err
	}

	if !q.gate.CanActOnBooking(actor, view.UserID, view.SiteID, shared.ActionView) {
		return nil, errs.ErrForbidden
	}

	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, actor shared.Actor, f ListFilter) ([]*BookingListItem, error) {
	// Roles without cross-user visibility only ever see their own bookings;
	// site-scoped roles never see past their own site.
	if !actor.Role.CanViewOtherUserBookings() {
		id := actor.ID
		f.UserID = &id
	}
	if actor.Role != user.RoleSuperAdmin {
		f.SiteID = actor.SiteID
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	return q.store.List(ctx, f)
}
