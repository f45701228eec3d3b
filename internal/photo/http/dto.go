package http

import (
	"time"

	"github.com/gearshare/item-lending-backend/internal/photo"
)

// PhotoResponse is the shape of photo metadata returned in API responses.
type PhotoResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	resp := PhotoResponse{
		ID:          p.ID,
		ItemID:      p.ItemID,
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Size:        p.Size,
		URL:         photo.PhotoURL(p.ID),
		CreatedAt:   p.CreatedAt,
	}
	if p.ThumbnailPath != nil {
		u := photo.ThumbnailURL(p.ID)
		resp.ThumbnailURL = &u
	}
	return resp
}

// NewPhotoListResponse converts a photo slice, never returning nil so the
// JSON output stays an array.
func NewPhotoListResponse(photos []*photo.Photo) []PhotoResponse {
	resp := make([]PhotoResponse, len(photos))
	for idx, p := range photos {
		resp[idx] = NewPhotoResponse(p)
	}
	return resp
}
