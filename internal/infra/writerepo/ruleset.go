package writerepo

import (
	"context"

	"reserva-api/internal/domain/rules"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RuleSetRepository struct {
	pool *pgxpool.Pool
}

func NewRuleSetRepository(pool *pgxpool.Pool) *RuleSetRepository {
	return &RuleSetRepository{pool: pool}
}

// FindActive returns the active rule set for the (site, resource type) pair,
// or nil when none is configured. The partial unique index guarantees at most
// one row.
func (r *RuleSetRepository) FindActive(ctx context.Context, siteID, resourceTypeID uuid.UUID) (*rules.RuleSet, error) {
	const query = `
		SELECT id, site_id, resource_type_id, name, operating_hours,
		       min_duration_minutes, max_duration_minutes, buffer_minutes,
		       max_bookings_per_day, max_advance_days, blocked_days, is_active
		FROM rule_sets
		WHERE site_id = $1 AND resource_type_id = $2 AND is_active`

	var rs rules.RuleSet
	err := r.pool.QueryRow(ctx, query, siteID, resourceTypeID).Scan(
		&rs.ID, &rs.SiteID, &rs.ResourceTypeID, &rs.Name, &rs.OperatingHours,
		&rs.MinDurationMinutes, &rs.MaxDurationMinutes, &rs.BufferMinutes,
		&rs.MaxBookingsPerDay, &rs.MaxAdvanceDays, &rs.BlockedDays, &rs.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find active rule set", err)
	}

	return &rs, nil
}
