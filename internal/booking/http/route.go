package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /bookings for patients and /hp/bookings for providers.
// Each guard chain must include token validation and the user type check.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, userOnly, hpOnly []gin.HandlerFunc) {
	// === User Routes ===
	group := g.Group("/bookings", userOnly...)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.POST("/:id/cancel", h.Cancel)
	}

	// === Provider Routes ===
	hp := g.Group("/hp/bookings", hpOnly...)
	{
		hp.GET("", h.ListForProvider)
		hp.PATCH("/:id", h.UpdateStatus)
	}
}
