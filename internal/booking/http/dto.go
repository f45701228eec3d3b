package http

import (
	"time"

	"github.com/gearshare/item-lending-backend/internal/booking"
	"github.com/gearshare/item-lending-backend/internal/pkg/request"
)

// CreateBookingRequest defines the payload for creating a booking.
// Date ordering is checked by the service so the failure order of the
// booking checks stays stable.
type CreateBookingRequest struct {
	ItemID    string    `json:"item_id" binding:"required,uuid"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	return nil
}

// ApproveBookingRequest defines query parameters for the approve endpoint.
// A pointer keeps approved=false distinguishable from a missing parameter.
type ApproveBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for the booking listings.
type ListBookingsRequest struct {
	request.WindowParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	BookerID  string    `json:"booker_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		StartDate: b.Start,
		EndDate:   b.End,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBookingListResponse converts a booking slice, never returning nil so the
// JSON output stays an array.
func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
