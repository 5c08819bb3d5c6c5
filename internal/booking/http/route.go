package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// Public slot grid for the booking UI
	group.GET("/slots", h.Slots)

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("", h.List)
		authed.GET("/:id", h.Get)
		authed.POST("", h.Create)
		authed.POST("/check-availability", h.CheckAvailability)
		authed.POST("/quote", h.Quote)
		authed.POST("/waitlist", h.JoinWaitlist)
		authed.POST("/:id/cancel", h.Cancel)
		authed.PATCH("/:id/status", h.UpdateStatus)
	}
}
