package itemrequest

import (
	"net/http"
	"time"

	"github.com/gearshare/item-lending-backend/internal/item"
	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "Request not found")

// ItemRequest is a bulletin-board post asking for an item nobody has listed
// yet. Items can later be created in answer to it.
type ItemRequest struct {
	ID          string
	RequestorID string
	Description string
	CreatedAt   time.Time
}

// Info is an item request together with the items listed in answer to it.
type Info struct {
	ItemRequest
	Items []*item.Item
}
