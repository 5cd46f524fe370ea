package router

import (
	"fmt"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/cache"
	"github.com/belleza-studio/belleza-api/internal/config"
	adminhandlers "github.com/belleza-studio/belleza-api/internal/http/handlers/admin"
	publichandlers "github.com/belleza-studio/belleza-api/internal/http/handlers/public"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP surface: the admin dashboard API, the
// public booking API, the messaging webhooks and the wallet web service.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "blz"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}
	bookingRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:booking", redisPrefix),
		WindowSeconds: cfg.Security.BookingRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.BookingRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.BookingRateLimit.BlockSeconds,
		Message:       "too many booking attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/services", publicHandler.ListServices)
			public.GET("/availability", publicHandler.GetAvailability)
			public.POST("/bookings", RateLimitMiddleware(redisClient, bookingRule, KeyByIPAndJSONField("phone")), publicHandler.CreateBooking)
			public.POST("/cards", RateLimitMiddleware(redisClient, bookingRule, KeyByIPAndJSONField("phone")), publicHandler.RegisterCard)
			public.GET("/cards/:id", publicHandler.GetCard)
		}

		webhooks := apiV1.Group("/webhooks")
		{
			webhooks.POST("/whatsapp", publicHandler.WhatsAppWebhook)
			webhooks.POST("/evolution", publicHandler.EvolutionWebhook)
			webhooks.POST("/wallet/google", publicHandler.GoogleWalletCallback)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authed.PUT("/password", adminHandler.ChangePassword)
				authed.GET("/dashboard/overview", adminHandler.GetDashboardOverview)

				authed.POST("/cards", adminHandler.IssueCard)
				authed.GET("/cards", adminHandler.ListCards)
				authed.GET("/cards/:id", adminHandler.GetCard)
				authed.POST("/cards/:id/stamp", adminHandler.StampCard)
				authed.POST("/cards/:id/redeem", adminHandler.RedeemCard)
				authed.DELETE("/cards/:id", adminHandler.DeleteCard)

				authed.POST("/appointments", adminHandler.CreateAppointment)
				authed.GET("/appointments", adminHandler.ListAppointments)
				authed.GET("/appointments/:id", adminHandler.GetAppointment)
				authed.PUT("/appointments/:id", adminHandler.UpdateAppointment)
				authed.PUT("/appointments/:id/status", adminHandler.UpdateAppointmentStatus)
				authed.DELETE("/appointments/:id", adminHandler.CancelAppointment)

				authed.POST("/services", adminHandler.CreateService)
				authed.GET("/services", adminHandler.ListServices)
				authed.PUT("/services/:id", adminHandler.UpdateService)
				authed.DELETE("/services/:id", adminHandler.DeleteService)

				authed.POST("/notifications", adminHandler.CreateBroadcast)
				authed.GET("/notifications", adminHandler.ListNotifications)
			}
		}
	}

	// Apple PassKit web service, path shape mandated by the device.
	walletV1 := r.Group("/wallet/v1")
	{
		walletV1.POST("/devices/:deviceId/registrations/:passTypeId/:serial", publicHandler.RegisterAppleDevice)
		walletV1.DELETE("/devices/:deviceId/registrations/:passTypeId/:serial", publicHandler.UnregisterAppleDevice)
		walletV1.GET("/devices/:deviceId/registrations/:passTypeId", publicHandler.ListAppleSerials)
		walletV1.GET("/passes/:passTypeId/:serial", publicHandler.GetApplePass)
		walletV1.POST("/log", publicHandler.AppleLog)
	}

	return r
}
