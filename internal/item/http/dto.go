package http

import (
	"time"

	bookingHttp "github.com/gearshare/item-lending-backend/internal/booking/http"
	"github.com/gearshare/item-lending-backend/internal/item"
)

// CreateItemRequest defines the payload for listing an item.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

// Validate performs custom validation for CreateItemRequest.
func (r *CreateItemRequest) Validate() error {
	return nil
}

// UpdateItemRequest defines fields allowed to be updated via PATCH /items/:id.
// Pointers distinguish "field not sent" from "field sent empty".
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Validate performs custom validation for UpdateItemRequest.
func (r *UpdateItemRequest) Validate() error {
	return nil
}

// SearchItemsRequest defines query parameters for item search.
type SearchItemsRequest struct {
	Text string `form:"text"`
}

// CreateCommentRequest defines the payload for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemResponse is the shape of item data returned in API responses.
type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   *string   `json:"request_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
		CreatedAt:   i.CreatedAt,
	}
}

// NewItemListResponse converts an item slice, never returning nil so the JSON
// output stays an array.
func NewItemListResponse(items []*item.Item) []ItemResponse {
	resp := make([]ItemResponse, len(items))
	for idx, i := range items {
		resp[idx] = NewItemResponse(i)
	}
	return resp
}

// CommentResponse is the shape of comment data returned in API responses.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

// ItemDetailsResponse is an item with its comments and, for the owner, the
// last and next booking summary.
type ItemDetailsResponse struct {
	ItemResponse
	LastBooking *bookingHttp.BookingResponse `json:"last_booking"`
	NextBooking *bookingHttp.BookingResponse `json:"next_booking"`
	Comments    []CommentResponse            `json:"comments"`
}

func NewItemDetailsResponse(d *item.Details) ItemDetailsResponse {
	resp := ItemDetailsResponse{
		ItemResponse: NewItemResponse(&d.Item),
		Comments:     make([]CommentResponse, len(d.Comments)),
	}
	for idx, c := range d.Comments {
		resp.Comments[idx] = NewCommentResponse(c)
	}

	if d.LastBooking != nil {
		b := bookingHttp.NewBookingResponse(d.LastBooking)
		resp.LastBooking = &b
	}
	if d.NextBooking != nil {
		b := bookingHttp.NewBookingResponse(d.NextBooking)
		resp.NextBooking = &b
	}
	return resp
}
