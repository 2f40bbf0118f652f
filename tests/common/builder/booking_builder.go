//go:build unit || e2e

package builder

import (
	"time"

	dombooking "reserva-api/internal/domain/booking"
	reqdto "reserva-api/internal/handler/dto/request"
	"reserva-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID           uuid.UUID
	Code         string
	ResourceID   uuid.UUID
	ResourceCode string
	ResourceName string
	SiteID       uuid.UUID
	SiteCode     string
	UserID       uuid.UUID
	UserName     string
	UserEmail    string
	StartAt      time.Time
	EndAt        time.Time
	Status       string
	Purpose      string
	Notes        *string
	Attendees    int32
	LicensePlate *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Minute)
	start := now.Add(24 * time.Hour)
	return &BookingBuilder{
		ID:           uuid.New(),
		Code:         "BOOK-2026-0001",
		ResourceID:   uuid.New(),
		ResourceCode: "ROOM-A",
		ResourceName: "Meeting Room A",
		SiteID:       uuid.New(),
		SiteCode:     "HQ",
		UserID:       uuid.New(),
		UserName:     "Test User",
		UserEmail:    "user@example.com",
		StartAt:      start,
		EndAt:        start.Add(time.Hour),
		Status:       "confirmed",
		Purpose:      "Weekly sync",
		Attendees:    4,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	slot, err := dombooking.NewTimeSlot(b.StartAt, b.EndAt)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.ResourceID, b.UserID, slot,
		dombooking.NewPurpose(b.Purpose),
		b.Notes, b.Attendees, b.LicensePlate,
	), nil
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:           b.ID,
		Code:         b.Code,
		ResourceID:   b.ResourceID,
		ResourceCode: b.ResourceCode,
		ResourceName: b.ResourceName,
		SiteID:       b.SiteID,
		SiteCode:     b.SiteCode,
		UserID:       b.UserID,
		UserName:     b.UserName,
		UserEmail:    b.UserEmail,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Status:       b.Status,
		Purpose:      b.Purpose,
		Notes:        b.Notes,
		Attendees:    b.Attendees,
		LicensePlate: b.LicensePlate,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           b.ID,
		Code:         b.Code,
		ResourceID:   b.ResourceID,
		ResourceCode: b.ResourceCode,
		ResourceName: b.ResourceName,
		SiteCode:     b.SiteCode,
		UserID:       b.UserID,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Status:       b.Status,
		Purpose:      b.Purpose,
		CreatedAt:    b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ResourceID:   b.ResourceID,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Purpose:      b.Purpose,
		Notes:        b.Notes,
		Attendees:    b.Attendees,
		LicensePlate: b.LicensePlate,
	}
}

func (b *BookingBuilder) BuildRescheduleRequestDTO() reqdto.RescheduleBookingRequest {
	return reqdto.RescheduleBookingRequest{
		StartAt: b.StartAt,
		EndAt:   b.EndAt,
	}
}
