package queries

import (
	"context"
	"log/slog"
	"time"

	"reserva-api/internal/domain/booking"
	"reserva-api/internal/domain/resource"
	"reserva-api/internal/domain/rules"
	"reserva-api/internal/domain/site"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/errs"

	"github.com/google/uuid"
)

type SlotView struct {
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Available bool       `json:"available"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
}

type ResourceAvailabilityView struct {
	ResourceID   uuid.UUID  `json:"resource_id"`
	ResourceCode string     `json:"resource_code"`
	ResourceName string     `json:"resource_name"`
	Date         string     `json:"date"`
	Slots        []SlotView `json:"slots"`
}

type SiteAvailabilityView struct {
	SiteCode  string                      `json:"site_code"`
	Date      string                      `json:"date"`
	Resources []*ResourceAvailabilityView `json:"resources"`
}

type ResourceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	FindSiteByID(ctx context.Context, id uuid.UUID) (*site.Site, error)
	FindSiteByCode(ctx context.Context, code string) (*site.Site, error)
	FindActiveBySite(ctx context.Context, siteID uuid.UUID, typeCode string) ([]*resource.Resource, error)
}

type BookingIntervalReader interface {
	FindActiveByResourceAndRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*booking.Booking, error)
}

type RuleSetReader interface {
	FindActive(ctx context.Context, siteID, resourceTypeID uuid.UUID) (*rules.RuleSet, error)
}

// AvailabilityCache is the read-through cache port. A nil hit with nil error
// means miss; failures degrade to a direct computation.
type AvailabilityCache interface {
	Get(ctx context.Context, resourceID uuid.UUID, date string) (*ResourceAvailabilityView, error)
	Set(ctx context.Context, view *ResourceAvailabilityView) error
}

type AvailabilityQueries interface {
	ForResource(ctx context.Context, resourceID uuid.UUID, date string) (*ResourceAvailabilityView, error)
	ForSite(ctx context.Context, siteCode, typeCode, date string) (*SiteAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	resources ResourceReadStore
	bookings  BookingIntervalReader
	ruleSets  RuleSetReader
	cache     AvailabilityCache
	defaults  booking.SliceConfig
}

func NewAvailabilityQueries(
	resources ResourceReadStore,
	bookings BookingIntervalReader,
	ruleSets RuleSetReader,
	cache AvailabilityCache,
	defaults booking.SliceConfig,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		resources: resources,
		bookings:  bookings,
		ruleSets:  ruleSets,
		cache:     cache,
		defaults:  defaults,
	}
}

func (q *availabilityQueriesImpl) ForResource(ctx context.Context, resourceID uuid.UUID, date string) (*ResourceAvailabilityView, error) {
	if q.cache != nil {
		if cached, err := q.cache.Get(ctx, resourceID, date); err != nil {
			slog.Warn("availability cache read failed", "resource_id", resourceID, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	res, err := q.resources.FindByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrResourceNotFound
		}
		return nil, err
	}

	st, err := q.resources.FindSiteByID(ctx, res.SiteID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSiteNotFound
		}
		return nil, err
	}

	view, err := q.computeForResource(ctx, res, st, date)
	if err != nil {
		return nil, err
	}

	if q.cache != nil {
		if err := q.cache.Set(ctx, view); err != nil {
			slog.Warn("availability cache write failed", "resource_id", resourceID, "error", err.Error())
		}
	}
	return view, nil
}

func (q *availabilityQueriesImpl) ForSite(ctx context.Context, siteCode, typeCode, date string) (*SiteAvailabilityView, error) {
	st, err := q.resources.FindSiteByCode(ctx, siteCode)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSiteNotFound
		}
		return nil, err
	}

	resourceList, err := q.resources.FindActiveBySite(ctx, st.ID, typeCode)
	if err != nil {
		return nil, err
	}

	// Per resource, independently; no cross-resource interaction.
	views := make([]*ResourceAvailabilityView, 0, len(resourceList))
	for _, res := range resourceList {
		view, err := q.computeForResource(ctx, res, st, date)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &SiteAvailabilityView{
		SiteCode:  st.Code,
		Date:      date,
		Resources: views,
	}, nil
}

func (q *availabilityQueriesImpl) computeForResource(ctx context.Context, res *resource.Resource, st *site.Site, date string) (*ResourceAvailabilityView, error) {
	day, err := time.ParseInLocation("2006-01-02", date, st.Location())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInterval)
	}

	rs, err := q.ruleSets.FindActive(ctx, res.SiteID(), res.TypeID())
	if err != nil {
		return nil, err
	}
	cfg := rs.SliceConfig(q.defaults)

	existing, err := q.bookings.FindActiveByResourceAndRange(ctx, res.ID(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	slots := booking.SliceDay(day, res.ID(), cfg, existing)
	slotViews := make([]SlotView, len(slots))
	for i, s := range slots {
		slotViews[i] = SlotView{
			Start:     s.Start,
			End:       s.End,
			Available: s.Available,
			BookingID: s.BookingID,
		}
	}

	return &ResourceAvailabilityView{
		ResourceID:   res.ID(),
		ResourceCode: res.Code(),
		ResourceName: res.Name(),
		Date:         date,
		Slots:        slotViews,
	}, nil
}
