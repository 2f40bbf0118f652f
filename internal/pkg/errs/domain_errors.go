package errs

import "errors"

// Sentinel errors shared across usecase layers
var (
	// Booking errors
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSchedulingConflict = errors.New("scheduling conflict")
	ErrInvalidInterval    = errors.New("invalid interval")
	ErrStaleState         = errors.New("booking is not in the expected state")
	ErrBookingStarted     = errors.New("booking has already started")
	ErrRuleViolation      = errors.New("rule set violation")

	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrResourceInactive = errors.New("resource is not active")
	ErrSiteNotFound     = errors.New("site not found")

	// Authorization errors
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
