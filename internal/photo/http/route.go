package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	photos := g.Group("/photos")
	{
		photos.GET("/:id", h.ServePhoto)
		photos.GET("/:id/thumbnail", h.ServeThumbnail)
	}

	items := g.Group("/items")
	{
		items.GET("/:id/photos", h.ListByItem)
	}

	// === Authenticated Routes ===
	photos.DELETE("/:id", authMiddleware, h.Delete)
	items.POST("/:id/photos", authMiddleware, h.Upload)
}
