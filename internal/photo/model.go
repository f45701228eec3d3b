package photo

import (
	"net/http"
	"time"

	"github.com/gearshare/item-lending-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "Photo not found")

// Photo is an image attached to an item by its owner.
type Photo struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	UserID        string    `json:"user_id"`
	Filename      string    `json:"filename"`
	StoragePath   string    `json:"-"` // Internal path
	ThumbnailPath *string   `json:"-"` // Internal path
	ContentType   string    `json:"content_type"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}

// PhotoURL returns the public URL for accessing a photo by its ID.
func PhotoURL(id string) string {
	return "/photos/" + id
}

// ThumbnailURL returns the public URL for accessing a photo's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/photos/" + id + "/thumbnail"
}
