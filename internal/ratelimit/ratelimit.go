package ratelimit

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medislot/appointment-backend/internal/pkg/response"
)

// Limiter decides whether one more hit for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware limits requests per client IP under the given bucket name.
// When the limiter itself fails, requests are let through if failOpen is set.
func Middleware(l Limiter, bucket string, failOpen bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bucket + ":" + c.ClientIP()

		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("bucket", bucket).Msg("rate limiter error")
			if failOpen {
				c.Next()
				return
			}
			response.Abort(c, http.StatusServiceUnavailable, "rate limiter unavailable")
			return
		}
		if !ok {
			response.Abort(c, http.StatusTooManyRequests, "Too many requests. Please try again later")
			return
		}
		c.Next()
	}
}
