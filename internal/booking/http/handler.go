package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/item-lending-backend/internal/auth"
	"github.com/gearshare/item-lending-backend/internal/booking"
	"github.com/gearshare/item-lending-backend/internal/pkg/request"
	"github.com/gearshare/item-lending-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// Create registers a new booking for the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BookerID: userID,
		ItemID:   body.ItemID,
		Start:    body.StartDate,
		End:      body.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Approve lets the item's owner approve or reject a waiting booking.
func (h *Handler) Approve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var query ApproveBookingRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.Approve(c.Request.Context(), userID, uri.ID, *query.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Get returns a single booking to its booker or the item's owner.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	b, err := h.service.GetByID(c.Request.Context(), userID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// List returns the authenticated user's own bookings filtered by state.
func (h *Handler) List(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListOwner returns bookings of the authenticated user's items filtered by
// state.
func (h *Handler) ListOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFunc func(ctx context.Context, userID string, state booking.State, from, size int) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, fn listFunc) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	state, err := booking.ParseState(query.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)

	bookings, err := fn(c.Request.Context(), userID, state, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}
