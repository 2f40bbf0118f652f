package site

import (
	"time"

	"github.com/google/uuid"
)

// Site is a physical location (office) owning resources. Timezone is the IANA
// name used to anchor calendar-day computations for its resources.
type Site struct {
	ID       uuid.UUID
	Code     string
	Name     string
	Timezone string
	IsActive bool
}

func (s *Site) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
