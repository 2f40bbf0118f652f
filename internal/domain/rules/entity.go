package rules

import (
	"strings"
	"time"

	"reserva-api/internal/domain/booking"

	"github.com/google/uuid"
)

// RuleSet is the booking policy for a (site, resource type) pair. At most one
// active rule set per pair; the partial unique index upstream enforces that.
//
// OperatingHours entries are "HH:MM-HH:MM" windows. BlockedDays entries are
// ISO dates.
type RuleSet struct {
	ID                 uuid.UUID
	SiteID             uuid.UUID
	ResourceTypeID     uuid.UUID
	Name               string
	OperatingHours     []string
	MinDurationMinutes int32
	MaxDurationMinutes int32
	BufferMinutes      int32
	MaxBookingsPerDay  int32
	MaxAdvanceDays     int32
	BlockedDays        []string
	IsActive           bool
}

func (rs *RuleSet) BufferDuration() time.Duration {
	if rs == nil || rs.BufferMinutes <= 0 {
		return 0
	}
	return time.Duration(rs.BufferMinutes) * time.Minute
}

// SliceConfig derives the availability window from the first operating-hours
// entry, falling back to fallback when the rule set declares none or is nil.
func (rs *RuleSet) SliceConfig(fallback booking.SliceConfig) booking.SliceConfig {
	if rs == nil || len(rs.OperatingHours) == 0 {
		return fallback
	}

	openStr, closeStr, ok := strings.Cut(rs.OperatingHours[0], "-")
	if !ok {
		return fallback
	}
	open, err := booking.ParseClock(openStr)
	if err != nil {
		return fallback
	}
	close, err := booking.ParseClock(closeStr)
	if err != nil {
		return fallback
	}

	cfg := fallback
	cfg.Open = open
	cfg.Close = close
	return cfg
}
