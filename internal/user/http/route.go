package http

import (
	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc, otpLimiter gin.HandlerFunc) {
	users := g.Group("/users")

	// === Public Routes ===
	authGroup := users.Group("/auth", otpLimiter)
	{
		authGroup.POST("/send-code", h.SendCode)
		authGroup.POST("/verify-code", h.VerifyCode)
	}

	// === User Routes ===
	profile := users.Group("/profile", authMiddleware, auth.RequireUserType(auth.UserTypeUser))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}
