package writerepo

import (
	"context"
	"time"

	"reserva-api/internal/domain/booking"
	"reserva-api/internal/infra"
	"reserva-api/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
	id, code, resource_id, user_id, start_at, end_at, status, purpose,
	notes, attendees, license_plate, cancelled_at, cancelled_by,
	created_by, created_at, updated_at`

var (
	findBookingByIDQuery = `SELECT` + bookingColumns + `
		FROM bookings WHERE id = $1`

	findActiveBookingsQuery = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE resource_id = $1
		  AND status IN ('confirmed', 'completed')
		  AND start_at < $3
		  AND end_at > $2
		ORDER BY start_at`
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	const query = `
		INSERT INTO bookings (
			id, code, resource_id, user_id, start_at, end_at, status, purpose,
			notes, attendees, license_plate, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		b.ID(),
		b.Code(),
		b.ResourceID(),
		b.UserID(),
		b.Slot().Start(),
		b.Slot().End(),
		string(b.Status()),
		b.Purpose().String(),
		pgconv.StringPtrToPgtype(b.Notes()),
		b.Attendees(),
		pgconv.StringPtrToPgtype(b.LicensePlate()),
		b.CreatedBy(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET start_at = $2, end_at = $3, status = $4, purpose = $5, notes = $6,
		    attendees = $7, license_plate = $8, cancelled_at = $9,
		    cancelled_by = $10, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		b.ID(),
		b.Slot().Start(),
		b.Slot().End(),
		string(b.Status()),
		b.Purpose().String(),
		pgconv.StringPtrToPgtype(b.Notes()),
		b.Attendees(),
		pgconv.StringPtrToPgtype(b.LicensePlate()),
		pgconv.TimePtrToPgtype(b.CancelledAt()),
		pgconv.UUIDPtrToPgtype(b.CancelledBy()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, findBookingByIDQuery, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return b, nil
}

// FindActiveByResourceAndRange returns confirmed and completed bookings whose
// [start_at, end_at) interval intersects [from, to).
func (r *BookingRepository) FindActiveByResourceAndRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*booking.Booking, error) {
	rows, err := r.pool.Query(ctx, findActiveBookingsQuery, resourceID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings in range", err)
	}
	defer rows.Close()

	var result []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}

	return result, nil
}

// CountActiveByUserAndDay counts the user's active bookings of the given
// resource type on the calendar day containing `day` (UTC day boundaries).
func (r *BookingRepository) CountActiveByUserAndDay(ctx context.Context, userID, resourceTypeID uuid.UUID, day time.Time) (int, error) {
	const query = `
		SELECT count(*)
		FROM bookings b
		JOIN resources r ON r.id = b.resource_id
		WHERE b.user_id = $1
		  AND r.type_id = $2
		  AND b.status IN ('confirmed', 'completed')
		  AND b.start_at >= $3
		  AND b.start_at < $4`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, resourceTypeID, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count bookings per day", err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, resourceID, userID, createdBy uuid.UUID
		code, status, purpose             string
		startAt, endAt                    time.Time
		notes, licensePlate               *string
		attendees                         int32
		cancelledAt                       *time.Time
		cancelledBy                       *uuid.UUID
		createdAt, updatedAt              time.Time
	)

	err := row.Scan(
		&id, &code, &resourceID, &userID, &startAt, &endAt, &status, &purpose,
		&notes, &attendees, &licensePlate, &cancelledAt, &cancelledBy,
		&createdBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot, err := booking.NewTimeSlot(startAt, endAt)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		id, code, resourceID, userID, slot,
		booking.Status(status), booking.NewPurpose(purpose),
		notes, attendees, licensePlate,
		cancelledAt, cancelledBy, createdBy, createdAt, updatedAt,
	), nil
}
