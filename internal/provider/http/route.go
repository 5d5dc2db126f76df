package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /hp/auth and /hp/profile. hpOnly must already
// include token validation and the provider type check.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, hpOnly []gin.HandlerFunc, otpLimiter gin.HandlerFunc) {
	hp := g.Group("/hp")

	// === Public Routes ===
	authGroup := hp.Group("/auth", otpLimiter)
	{
		authGroup.POST("/verify-email", h.VerifyEmail)
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// === Provider Routes ===
	profile := hp.Group("/profile", hpOnly...)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}
