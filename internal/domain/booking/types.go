package booking

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status counts for overlap purposes.
// Completed bookings still occupy their historical interval.
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusCompleted
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusNoShow
}

// ActiveStatuses is the status set used by overlap queries.
var ActiveStatuses = []Status{StatusConfirmed, StatusCompleted}
