package item

import (
	"net/http"
	"time"

	"github.com/gearshare/item-lending-backend/internal/booking"
	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "Item not found")
	ErrAccessDenied      = apperror.New(http.StatusForbidden, "Access is denied")
	ErrCommentNotAllowed = apperror.New(http.StatusBadRequest, "You cannot comment on this item")
)

// Item is something a user offers for lending. Availability is a flag the
// owner toggles; it gates new bookings, not existing ones.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string // set when the item was listed in answer to an item request
	CreatedAt   time.Time
}

// Comment is feedback left on an item by a user who finished an approved
// booking of it. Immutable once created.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// Details is the item view returned to readers. LastBooking and NextBooking
// are only populated for the item's owner; everyone else sees nil for both.
type Details struct {
	Item
	LastBooking *booking.Booking
	NextBooking *booking.Booking
	Comments    []*Comment
}
