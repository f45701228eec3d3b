package http

import (
	"time"

	itemHttp "github.com/gearshare/item-lending-backend/internal/item/http"
	"github.com/gearshare/item-lending-backend/internal/itemrequest"
	"github.com/gearshare/item-lending-backend/internal/pkg/request"
)

// CreateRequestBody defines the payload for posting an item request.
type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

// ListOthersRequest defines query parameters for browsing other users'
// requests.
type ListOthersRequest struct {
	request.WindowParams
}

// RequestResponse is the shape of item-request data returned in API
// responses, including the items posted in answer.
type RequestResponse struct {
	ID          string                  `json:"id"`
	RequestorID string                  `json:"requestor_id"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created_at"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(info *itemrequest.Info) RequestResponse {
	return RequestResponse{
		ID:          info.ID,
		RequestorID: info.RequestorID,
		Description: info.Description,
		CreatedAt:   info.CreatedAt,
		Items:       itemHttp.NewItemListResponse(info.Items),
	}
}

// NewRequestListResponse converts an info slice, never returning nil so the
// JSON output stays an array.
func NewRequestListResponse(infos []*itemrequest.Info) []RequestResponse {
	resp := make([]RequestResponse, len(infos))
	for idx, info := range infos {
		resp[idx] = NewRequestResponse(info)
	}
	return resp
}
