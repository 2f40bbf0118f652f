package response

import (
	"time"

	"reserva-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID           uuid.UUID  `json:"id"`
	Code         string     `json:"code"`
	ResourceID   uuid.UUID  `json:"resource_id"`
	ResourceCode string     `json:"resource_code"`
	ResourceName string     `json:"resource_name"`
	SiteCode     string     `json:"site_code"`
	UserID       uuid.UUID  `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	StartAt      time.Time  `json:"start_at"`
	EndAt        time.Time  `json:"end_at"`
	Status       string     `json:"status"`
	Purpose      string     `json:"purpose"`
	Notes        *string    `json:"notes,omitempty"`
	Attendees    int32      `json:"attendees"`
	LicensePlate *string    `json:"license_plate,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceCode string    `json:"resource_code"`
	ResourceName string    `json:"resource_name"`
	SiteCode     string    `json:"site_code"`
	UserID       uuid.UUID `json:"user_id"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Status       string    `json:"status"`
	Purpose      string    `json:"purpose"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromBookingListItems(items []*queries.BookingListItem) []*BookingListResponse {
	result := make([]*BookingListResponse, len(items))
	for i, item := range items {
		var resp BookingListResponse
		_ = copier.Copy(&resp, item)
		result[i] = &resp
	}
	return result
}
