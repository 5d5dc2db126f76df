package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the schedule endpoints. hpOnly must include token
// validation and the provider type check.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc, hpOnly []gin.HandlerFunc) {
	// === Provider Routes ===
	hpDoctor := g.Group("/hp/doctors/:id/schedules", hpOnly...)
	{
		hpDoctor.GET("", h.ListForDoctor)
		hpDoctor.POST("", h.Create)
	}

	hp := g.Group("/hp/schedules", hpOnly...)
	{
		hp.GET("", h.ListForProvider)
		hp.GET("/:id", h.Get)
		hp.DELETE("/:id", h.Delete)
		hp.POST("/:id/cancel", h.Cancel)
	}

	// === Authenticated Routes ===
	authed := g.Group("", authMiddleware)
	{
		authed.GET("/doctors/:id/schedules", h.ListByDoctor)
		authed.GET("/schedules/:id/availability", h.Availability)
		authed.GET("/schedules/:id/dates", h.OpenDates)
	}
}
