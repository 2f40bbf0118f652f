package readstore

import (
	"context"
	"fmt"
	"strings"

	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"
	"reserva-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingViewSelect = `
	SELECT b.id, b.code, b.resource_id, r.code, r.name, s.id, s.code,
	       b.user_id, u.name, u.email, b.start_at, b.end_at, b.status,
	       b.purpose, b.notes, b.attendees, b.license_plate, b.cancelled_at,
	       b.created_at, b.updated_at
	FROM bookings b
	JOIN resources r ON r.id = b.resource_id
	JOIN sites s ON s.id = r.site_id
	JOIN users u ON u.id = b.user_id`

type BookingReadStore struct {
	pool *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{pool: pool}
}

func (r *BookingReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	query := bookingViewSelect + ` WHERE b.id = $1`

	var v queries.BookingView
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Code, &v.ResourceID, &v.ResourceCode, &v.ResourceName,
		&v.SiteID, &v.SiteCode, &v.UserID, &v.UserName, &v.UserEmail,
		&v.StartAt, &v.EndAt, &v.Status, &v.Purpose, &v.Notes, &v.Attendees,
		&v.LicensePlate, &v.CancelledAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	return &v, nil
}

func (r *BookingReadStore) List(ctx context.Context, f queries.ListFilter) ([]*queries.BookingListItem, error) {
	query, args := buildListQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		err := rows.Scan(
			&item.ID, &item.Code, &item.ResourceID, &item.ResourceCode,
			&item.ResourceName, &item.SiteCode, &item.UserID, &item.StartAt,
			&item.EndAt, &item.Status, &item.Purpose, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list rows", err)
	}

	return result, nil
}

func buildListQuery(f queries.ListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT b.id, b.code, b.resource_id, r.code, r.name, s.code, b.user_id,
		       b.start_at, b.end_at, b.status, b.purpose, b.created_at
		FROM bookings b
		JOIN resources r ON r.id = b.resource_id
		JOIN resource_types t ON t.id = r.type_id
		JOIN sites s ON s.id = r.site_id
		WHERE 1=1`)

	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		fmt.Fprintf(&sb, clause, len(args))
	}

	if f.SiteID != nil {
		add(" AND s.id = $%d", *f.SiteID)
	}
	if f.SiteCode != "" {
		add(" AND s.code = $%d", f.SiteCode)
	}
	if f.ResourceCode != "" {
		add(" AND r.code ILIKE $%d", "%"+f.ResourceCode+"%")
	}
	if f.ResourceTypeCode != "" {
		add(" AND t.code = $%d", f.ResourceTypeCode)
	}
	if f.Status != "" {
		add(" AND b.status = $%d", f.Status)
	}
	if f.UserID != nil {
		add(" AND b.user_id = $%d", *f.UserID)
	}
	if f.StartDate != nil {
		add(" AND b.start_at >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		// EndDate is inclusive at day granularity.
		add(" AND b.start_at < $%d", f.EndDate.AddDate(0, 0, 1))
	}
	if f.StartDate == nil && f.EndDate == nil {
		// Without an explicit range the list shows upcoming bookings only.
		sb.WriteString(" AND b.start_at >= now()")
	}

	sb.WriteString(" ORDER BY b.start_at, b.id")
	add(" LIMIT $%d", f.Limit)
	add(" OFFSET $%d", f.Offset)

	return sb.String(), args
}
