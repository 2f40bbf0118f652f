package rules

import (
	"fmt"
	"strings"
	"time"
)

// Violation is one failed rule, shaped for per-field error responses.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

const (
	FieldDuration       = "duration"
	FieldAdvance        = "start_at"
	FieldBlockedDay     = "date"
	FieldOperatingHours = "schedule"
	FieldDailyLimit     = "daily_limit"
)

// Validate checks a proposed interval against the rule set and reports every
// violated rule, not just the first, so callers can show all problems at
// once. userDayCount is the caller-supplied count of the user's existing
// active bookings for the same site and resource type on the candidate day.
//
// A nil rule set means no restrictions.
func Validate(rs *RuleSet, now, startAt, endAt time.Time, userDayCount int) []Violation {
	if rs == nil {
		return nil
	}

	var violations []Violation

	minutes := int32(endAt.Sub(startAt) / time.Minute)
	if minutes < rs.MinDurationMinutes {
		violations = append(violations, Violation{
			Field:  FieldDuration,
			Reason: fmt.Sprintf("duration must be at least %d minutes", rs.MinDurationMinutes),
		})
	}
	if rs.MaxDurationMinutes > 0 && minutes > rs.MaxDurationMinutes {
		violations = append(violations, Violation{
			Field:  FieldDuration,
			Reason: fmt.Sprintf("duration must be at most %d minutes", rs.MaxDurationMinutes),
		})
	}

	if rs.MaxAdvanceDays > 0 {
		limit := now.AddDate(0, 0, int(rs.MaxAdvanceDays))
		if startAt.After(limit) {
			violations = append(violations, Violation{
				Field:  FieldAdvance,
				Reason: fmt.Sprintf("bookings can be made at most %d days in advance", rs.MaxAdvanceDays),
			})
		}
	}

	if day := startAt.Format("2006-01-02"); rs.isDayBlocked(day) {
		violations = append(violations, Violation{
			Field:  FieldBlockedDay,
			Reason: fmt.Sprintf("bookings are not allowed on %s", day),
		})
	}

	if !rs.isTimeInOperatingHours(startAt.Format("15:04")) || !rs.isTimeInOperatingHours(endAt.Format("15:04")) {
		violations = append(violations, Violation{
			Field:  FieldOperatingHours,
			Reason: fmt.Sprintf("booking must fall within operating hours (%s)", strings.Join(rs.OperatingHours, ", ")),
		})
	}

	if rs.MaxBookingsPerDay > 0 && int32(userDayCount)+1 > rs.MaxBookingsPerDay {
		violations = append(violations, Violation{
			Field:  FieldDailyLimit,
			Reason: fmt.Sprintf("at most %d bookings per day allowed", rs.MaxBookingsPerDay),
		})
	}

	return violations
}

func (rs *RuleSet) isDayBlocked(day string) bool {
	for _, blocked := range rs.BlockedDays {
		if blocked == day {
			return true
		}
	}
	return false
}

// Lexicographic "HH:MM" comparison with inclusive ends, exactly as the range
// is stored. Windows crossing midnight ("22:00-02:00") never match; no
// deployed rule set uses one and the behavior for that case is undefined.
func (rs *RuleSet) isTimeInOperatingHours(clock string) bool {
	if len(rs.OperatingHours) == 0 {
		return true
	}

	for _, window := range rs.OperatingHours {
		start, end, ok := strings.Cut(window, "-")
		if !ok {
			continue
		}
		if clock >= start && clock <= end {
			return true
		}
	}
	return false
}
