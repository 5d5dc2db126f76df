package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medislot/appointment-backend/internal/api"
	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/booking"
	"github.com/medislot/appointment-backend/internal/doctor"
	"github.com/medislot/appointment-backend/internal/media"
	"github.com/medislot/appointment-backend/internal/notification"
	"github.com/medislot/appointment-backend/internal/pkg/storage"
	"github.com/medislot/appointment-backend/internal/provider"
	"github.com/medislot/appointment-backend/internal/ratelimit"
	"github.com/medislot/appointment-backend/internal/schedule"
	"github.com/medislot/appointment-backend/internal/user"
	"github.com/medislot/appointment-backend/internal/verification"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       zerolog.Logger
	DBPool       *pgxpool.Pool
	// Redis is optional. Without it verification codes and rate-limit
	// counters are kept in process memory.
	Redis      *redis.Client
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	OTPTTL        time.Duration
	OTPBypassCode string
	OTPRateLimit  int
	OTPRateWindow time.Duration

	SMSWebhookURL  string
	SMSWebhookAuth string
	SMTPHost       string
	SMTPPort       string
	SMTPFrom       string

	AdminAPIKey   string
	MediaDir      string
	MediaMaxBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router          *gin.Engine
	JWTManager      *auth.JWTManager
	ScheduleService schedule.Service
	BookingService  booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var (
		codeStore verification.Store
		limiter   ratelimit.Limiter
	)
	if cfg.Redis != nil {
		codeStore = verification.NewRedisStore(cfg.Redis)
		limiter = ratelimit.NewRedisLimiter(cfg.Redis, cfg.OTPRateLimit, cfg.OTPRateWindow)
	} else {
		codeStore = verification.NewMemoryStore()
		limiter = ratelimit.NewMemoryLimiter(cfg.OTPRateLimit, cfg.OTPRateWindow)
	}
	codes := verification.NewCodes(codeStore, cfg.OTPTTL, cfg.OTPBypassCode)

	var sms notification.SMSSender = notification.LogSMSSender{}
	if cfg.SMSWebhookURL != "" {
		sms = notification.NewWebhookSMSSender(cfg.SMSWebhookURL, cfg.SMSWebhookAuth)
	}
	var mailer notification.EmailSender = notification.LogEmailSender{}
	if cfg.SMTPHost != "" {
		mailer = notification.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}

	store, err := storage.NewLocalStorage(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}

	// User & Doctor Modules
	userRepo := user.NewPgxRepository(cfg.DBPool)
	doctorRepo := doctor.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, doctorRepo, codes, sms)
	doctorService := doctor.NewService(doctorRepo, userRepo, codes, sms)

	// Provider Module
	providerRepo := provider.NewPgxRepository(cfg.DBPool)
	providerService := provider.NewService(providerRepo, passwordHasher, codes, mailer)

	// Schedule & Booking Modules
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, doctorRepo, bookingRepo)
	bookingService := booking.NewService(bookingRepo, scheduleService)

	// Media Module
	mediaRepo := media.NewPgxRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, store, cfg.MediaMaxBytes)

	checks := map[string]api.HealthCheck{
		"database": cfg.DBPool.Ping,
	}
	if cfg.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return cfg.Redis.Ping(ctx).Err() }
	}

	// API Router Config
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          cfg.Logger,
		UserService:     userService,
		DoctorService:   doctorService,
		ProviderService: providerService,
		ScheduleService: scheduleService,
		BookingService:  bookingService,
		MediaService:    mediaService,
		JWTManager:      jwtManager,
		AdminAPIKey:     cfg.AdminAPIKey,
		// The limiter fails open so a Redis outage does not lock everyone out of login.
		OTPLimiter:   ratelimit.Middleware(limiter, "otp", true),
		HealthChecks: checks,
	})

	return &Container{
		Router:          router,
		JWTManager:      jwtManager,
		ScheduleService: scheduleService,
		BookingService:  bookingService,
	}, nil
}
