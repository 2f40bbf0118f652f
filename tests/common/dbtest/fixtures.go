//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed IDs for the seeded reference rows so e2e tests can reference them
// without extra lookups.
var (
	SiteHQID          = uuid.MustParse("a0000000-0000-0000-0000-000000000001")
	SiteBranchID      = uuid.MustParse("a0000000-0000-0000-0000-000000000002")
	TypeMeetingRoomID = uuid.MustParse("b0000000-0000-0000-0000-000000000001")
	TypeParkingID     = uuid.MustParse("b0000000-0000-0000-0000-000000000002")
	RoomAlphaID       = uuid.MustParse("c0000000-0000-0000-0000-000000000001")
	RoomBetaID        = uuid.MustParse("c0000000-0000-0000-0000-000000000002")
	ParkingSlot1ID    = uuid.MustParse("c0000000-0000-0000-0000-000000000003")
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string, siteID *uuid.UUID) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, site_id, is_active) VALUES ($1, $2, $3, $4, $5, $6, true) ON CONFLICT (email) DO NOTHING",
		userID, "Test "+role, email, testPasswordHash, role, siteID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []string{
		`INSERT INTO sites (id, code, name, timezone) VALUES
		    ('` + SiteHQID.String() + `', 'HQ', 'Headquarters', 'Asia/Tokyo'),
		    ('` + SiteBranchID.String() + `', 'BR1', 'Branch One', 'Asia/Tokyo')
		ON CONFLICT (code) DO NOTHING;`,

		`INSERT INTO resource_types (id, code, name, requires_capacity, requires_license_plate) VALUES
		    ('` + TypeMeetingRoomID.String() + `', 'meeting_room', '会議室', true, false),
		    ('` + TypeParkingID.String() + `', 'parking', '駐車場', false, true)
		ON CONFLICT (code) DO NOTHING;`,

		`INSERT INTO resources (id, site_id, type_id, code, name, capacity) VALUES
		    ('` + RoomAlphaID.String() + `', '` + SiteHQID.String() + `', '` + TypeMeetingRoomID.String() + `', 'ROOM-A', 'Meeting Room Alpha', 10),
		    ('` + RoomBetaID.String() + `', '` + SiteHQID.String() + `', '` + TypeMeetingRoomID.String() + `', 'ROOM-B', 'Meeting Room Beta', 4),
		    ('` + ParkingSlot1ID.String() + `', '` + SiteHQID.String() + `', '` + TypeParkingID.String() + `', 'P-01', 'Parking Slot 1', NULL)
		ON CONFLICT (site_id, code) DO NOTHING;`,

		`INSERT INTO rule_sets (site_id, resource_type_id, name, operating_hours,
		        min_duration_minutes, max_duration_minutes, buffer_minutes,
		        max_bookings_per_day, max_advance_days, blocked_days)
		 SELECT '` + SiteHQID.String() + `', '` + TypeMeetingRoomID.String() + `', 'standard',
		        ARRAY['08:00-20:00'], 30, 180, 10, 3, 30, ARRAY[]::text[]
		 WHERE NOT EXISTS (
		     SELECT 1 FROM rule_sets
		     WHERE site_id = '` + SiteHQID.String() + `'
		       AND resource_type_id = '` + TypeMeetingRoomID.String() + `' AND is_active);`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
