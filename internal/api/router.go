package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/booking"
	bookingHttp "github.com/medislot/appointment-backend/internal/booking/http"
	"github.com/medislot/appointment-backend/internal/doctor"
	doctorHttp "github.com/medislot/appointment-backend/internal/doctor/http"
	"github.com/medislot/appointment-backend/internal/media"
	mediaHttp "github.com/medislot/appointment-backend/internal/media/http"
	"github.com/medislot/appointment-backend/internal/pkg/response"
	"github.com/medislot/appointment-backend/internal/provider"
	providerHttp "github.com/medislot/appointment-backend/internal/provider/http"
	"github.com/medislot/appointment-backend/internal/schedule"
	scheduleHttp "github.com/medislot/appointment-backend/internal/schedule/http"
	"github.com/medislot/appointment-backend/internal/user"
	userHttp "github.com/medislot/appointment-backend/internal/user/http"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Config holds everything the router needs to mount the modules.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       zerolog.Logger

	UserService     user.Service
	DoctorService   doctor.Service
	ProviderService provider.Service
	ScheduleService schedule.Service
	BookingService  booking.Service
	MediaService    media.Service

	JWTManager  *auth.JWTManager
	AdminAPIKey string
	// OTPLimiter throttles the public send-code/verify/login endpoints.
	OTPLimiter   gin.HandlerFunc
	HealthChecks map[string]HealthCheck
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(cfg.Logger), Recovery(cfg.Logger))

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", adminKeyHeader, requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", healthHandler(cfg.HealthChecks))

	otp := cfg.OTPLimiter
	if otp == nil {
		otp = func(c *gin.Context) { c.Next() }
	}

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	userOnly := []gin.HandlerFunc{authMiddleware, auth.RequireUserType(auth.UserTypeUser)}
	doctorOnly := []gin.HandlerFunc{authMiddleware, auth.RequireUserType(auth.UserTypeDoctor)}
	hpOnly := []gin.HandlerFunc{authMiddleware, auth.RequireUserType(auth.UserTypeProvider)}

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHttp.NewHandler(cfg.UserService, cfg.JWTManager), authMiddleware, otp)
		providerHttp.RegisterRoutes(v1, providerHttp.NewHandler(cfg.ProviderService, cfg.JWTManager), hpOnly, otp)
		doctorHttp.RegisterRoutes(v1, doctorHttp.NewHandler(cfg.DoctorService, cfg.JWTManager), doctorHttp.Guards{
			Provider: hpOnly,
			Doctor:   doctorOnly,
			Admin:    RequireAdminKey(cfg.AdminAPIKey),
			OTP:      otp,
		})
		scheduleHttp.RegisterRoutes(v1, scheduleHttp.NewHandler(cfg.ScheduleService), authMiddleware, hpOnly)
		bookingHttp.RegisterRoutes(v1, bookingHttp.NewHandler(cfg.BookingService), userOnly, hpOnly)
		mediaHttp.RegisterRoutes(v1, mediaHttp.NewHandler(cfg.MediaService), authMiddleware)
	}

	return r
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		results := make(gin.H, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				healthy = false
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"message": "Service unhealthy",
				"status":  response.StatusError,
				"checks":  results,
			})
			return
		}
		response.Success(c, http.StatusOK, "Service healthy", gin.H{"checks": results})
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
