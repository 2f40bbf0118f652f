package request

import (
	"strings"
	"time"

	"reserva-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID   uuid.UUID `json:"resource_id" binding:"required"`
	StartAt      time.Time `json:"start_at" binding:"required"`
	EndAt        time.Time `json:"end_at" binding:"required"`
	Purpose      string    `json:"purpose" binding:"required,max=255"`
	Notes        *string   `json:"notes,omitempty"`
	Attendees    int32     `json:"attendees" binding:"omitempty,min=1"`
	LicensePlate *string   `json:"license_plate,omitempty"`
}

func (r CreateBookingRequest) ToParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ResourceID:   r.ResourceID,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		Purpose:      strings.TrimSpace(r.Purpose),
		Notes:        trimPtr(r.Notes),
		Attendees:    r.Attendees,
		LicensePlate: trimPtr(r.LicensePlate),
	}
}

type RescheduleBookingRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

func (r RescheduleBookingRequest) ToParams() commands.RescheduleBookingParams {
	return commands.RescheduleBookingParams{
		StartAt: r.StartAt,
		EndAt:   r.EndAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
