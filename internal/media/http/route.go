package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /media. Reads are public so stored URLs can be used
// directly as profile pictures; writes need any authenticated principal.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/media")

	group.GET("/:id", h.Serve)
	group.GET("/:id/thumbnail", h.ServeThumbnail)

	group.POST("", authMiddleware, h.Upload)
	group.DELETE("/:id", authMiddleware, h.Delete)
}
