package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/item-lending-backend/internal/auth"
	"github.com/gearshare/item-lending-backend/internal/itemrequest"
	"github.com/gearshare/item-lending-backend/internal/pkg/request"
	"github.com/gearshare/item-lending-backend/internal/pkg/response"
)

type Handler struct {
	service itemrequest.Service
}

func NewHandler(service itemrequest.Service) *Handler {
	return &Handler{service: service}
}

// Create posts a new item request by the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	req, err := h.service.Create(c.Request.Context(), userID, body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRequestResponse(&itemrequest.Info{ItemRequest: *req}))
}

// Get returns a single request with the items posted in answer.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	info, err := h.service.GetByID(c.Request.Context(), userID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestResponse(info))
}

// ListOwn returns the authenticated user's own requests, newest first.
func (h *Handler) ListOwn(c *gin.Context) {
	userID := auth.GetUserID(c)

	infos, err := h.service.ListOwn(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestListResponse(infos))
}

// ListOthers returns other users' requests, newest first, windowed by
// from/size.
func (h *Handler) ListOthers(c *gin.Context) {
	var query ListOthersRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)

	infos, err := h.service.ListOthers(c.Request.Context(), userID, query.From, query.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestListResponse(infos))
}
