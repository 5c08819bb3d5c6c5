package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers media routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/media")

	// Public browsing
	group.GET("/:id", h.ServeImage)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
	group.GET("/owner/:owner_type/:owner_id", h.ListByOwner)

	// Admin-only management
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/owner/:owner_type/:owner_id", h.Upload)
		admin.DELETE("/:id", h.Delete)
	}
}
