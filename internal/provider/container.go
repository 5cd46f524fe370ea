package provider

import (
	"github.com/belleza-studio/belleza-api/internal/cache"
	"github.com/belleza-studio/belleza-api/internal/calendar"
	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/queue"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"
	"github.com/belleza-studio/belleza-api/internal/wallet"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"
)

// Container wires repositories, transports and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	CardRepo         repository.CardRepository
	CardEventRepo    repository.CardEventRepository
	AppointmentRepo  repository.AppointmentRepository
	ServiceRepo      repository.ServiceRepository
	NotificationRepo repository.NotificationRepository
	WalletDeviceRepo repository.WalletDeviceRepository

	// Transports
	Mirror         *calendar.Mirror
	WhatsAppSender whatsapp.Sender
	GooglePass     wallet.GooglePass
	ApplePush      wallet.ApplePush

	// Services
	AuthService        *service.AuthService
	CardService        *service.CardService
	CatalogService     *service.CatalogService
	AppointmentService *service.AppointmentService
	ReminderService    *service.ReminderService
	InboundService     *service.InboundService
	BroadcastService   *service.BroadcastService
	WalletPassService  *service.WalletPassService
	DashboardService   *service.DashboardService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initTransports()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CardRepo = repository.NewCardRepository(db)
	c.CardEventRepo = repository.NewCardEventRepository(db)
	c.AppointmentRepo = repository.NewAppointmentRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.WalletDeviceRepo = repository.NewWalletDeviceRepository(db)
}

// initTransports builds the outbound collaborators. Any identity that is
// disabled or misconfigured stays nil and the services degrade to
// database-only behavior.
func (c *Container) initTransports() {
	cfg := c.Config

	if cfg.Calendar.Enabled {
		first, err := calendar.NewHTTPClient(calendar.Config{
			APIBase:    cfg.Calendar.APIBase,
			Token:      cfg.Calendar.Token,
			CalendarID: cfg.Calendar.CalendarID,
			Attendee:   cfg.Calendar.Attendee1,
			TimeoutMS:  cfg.Calendar.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_calendar_first_failed", "error", err)
		}
		var secondAPI calendar.API
		if cfg.Calendar.Attendee2 != "" {
			second, err := calendar.NewHTTPClient(calendar.Config{
				APIBase:    cfg.Calendar.APIBase,
				Token:      cfg.Calendar.Token,
				CalendarID: cfg.Calendar.CalendarID,
				Attendee:   cfg.Calendar.Attendee2,
				TimeoutMS:  cfg.Calendar.TimeoutMS,
			})
			if err != nil {
				logger.Warnw("provider_init_calendar_second_failed", "error", err)
			} else {
				secondAPI = second
			}
		}
		var firstAPI calendar.API
		if first != nil {
			firstAPI = first
		}
		if firstAPI != nil || secondAPI != nil {
			c.Mirror = calendar.NewMirror(firstAPI, secondAPI)
		}
	}

	if cfg.WhatsApp.Enabled {
		sender, err := whatsapp.NewHTTPClient(whatsapp.Config{
			APIBase:   cfg.WhatsApp.APIBase,
			Token:     cfg.WhatsApp.Token,
			Instance:  cfg.WhatsApp.Instance,
			TimeoutMS: cfg.WhatsApp.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_whatsapp_failed", "error", err)
		} else {
			c.WhatsAppSender = sender
		}
	}

	if cfg.Wallet.Google.Enabled {
		google, err := wallet.NewGoogleHTTPClient(wallet.GoogleConfig{
			APIBase:   cfg.Wallet.Google.APIBase,
			IssuerID:  cfg.Wallet.Google.IssuerID,
			ClassID:   cfg.Wallet.Google.ClassID,
			Token:     cfg.Wallet.Google.Token,
			TimeoutMS: cfg.Wallet.Google.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_google_wallet_failed", "error", err)
		} else {
			c.GooglePass = google
		}
	}

	if cfg.Wallet.Apple.Enabled {
		apple, err := wallet.NewAppleHTTPClient(wallet.AppleConfig{
			PassTypeID: cfg.Wallet.Apple.PassTypeID,
			APNsBase:   cfg.Wallet.Apple.APNsBase,
			APNsToken:  cfg.Wallet.Apple.APNsToken,
			TimeoutMS:  cfg.Wallet.Apple.TimeoutMS,
		})
		if err != nil {
			logger.Warnw("provider_init_apple_wallet_failed", "error", err)
		} else {
			c.ApplePush = apple
		}
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.WalletPassService = service.NewWalletPassService(c.CardRepo, c.WalletDeviceRepo, c.GooglePass, c.ApplePush)
	c.CardService = service.NewCardService(c.CardRepo, c.CardEventRepo, c.WalletDeviceRepo, c.WalletPassService, c.QueueClient, cfg.Business)
	c.CatalogService = service.NewCatalogService(c.ServiceRepo)
	c.AppointmentService = service.NewAppointmentService(c.AppointmentRepo, c.CardService, c.ServiceRepo, c.Mirror, c.NotificationRepo, cfg.Business)
	c.ReminderService = service.NewReminderService(c.AppointmentRepo, c.WhatsAppSender, cfg.Reminders, cfg.WhatsApp, cfg.Business)
	c.InboundService = service.NewInboundService(c.AppointmentService, c.AppointmentRepo, c.WhatsAppSender, cfg.Business)
	c.BroadcastService = service.NewBroadcastService(c.CardRepo, c.WalletDeviceRepo, c.NotificationRepo, c.GooglePass, c.ApplePush, c.QueueClient, cfg.Business)
	c.DashboardService = service.NewDashboardService(c.AppointmentService.Location())
}
