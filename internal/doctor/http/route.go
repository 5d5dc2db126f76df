package http

import (
	"github.com/gin-gonic/gin"
)

// Guards groups the middleware chains the doctor routes are mounted behind.
type Guards struct {
	Provider []gin.HandlerFunc // token + hp type
	Doctor   []gin.HandlerFunc // token + doctor type
	Admin    gin.HandlerFunc
	OTP      gin.HandlerFunc
}

func RegisterRoutes(g *gin.RouterGroup, h *Handler, guards Guards) {
	// === Provider Routes ===
	hpDoctors := g.Group("/hp/doctors", guards.Provider...)
	{
		hpDoctors.GET("", h.List)
		hpDoctors.POST("", h.Create)
		hpDoctors.GET("/:id", h.Get)
		hpDoctors.PUT("/:id", h.Update)
		hpDoctors.DELETE("/:id", h.Delete)
	}

	// === Public Routes ===
	authGroup := g.Group("/doctors/auth", guards.OTP)
	{
		authGroup.POST("/send-code", h.SendCode)
		authGroup.POST("/verify-code", h.VerifyCode)
	}

	// === Doctor Routes ===
	profile := g.Group("/doctors/profile", guards.Doctor...)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}

	// === Admin Routes ===
	admin := g.Group("/admin/doctors", guards.Admin)
	{
		admin.GET("", h.AdminList)
		admin.POST("", h.AdminCreate)
	}
}
