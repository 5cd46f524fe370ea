package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/queue"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/wallet"
)

// BroadcastService fans a message out to every active card's wallet pass.
// Delivery is sequential with a small pause between cards to stay inside
// the platform rate limits; one bad card never aborts the run.
type BroadcastService struct {
	cards         repository.CardRepository
	devices       repository.WalletDeviceRepository
	notifications repository.NotificationRepository
	google        wallet.GooglePass
	apple         wallet.ApplePush
	queue         *queue.Client
	business      config.BusinessConfig
}

// BroadcastInput is one admin broadcast.
type BroadcastInput struct {
	Title   string
	Message string
}

// NewBroadcastService creates the broadcast service.
func NewBroadcastService(cards repository.CardRepository, devices repository.WalletDeviceRepository, notifications repository.NotificationRepository, google wallet.GooglePass, apple wallet.ApplePush, queueClient *queue.Client, business config.BusinessConfig) *BroadcastService {
	return &BroadcastService{
		cards:         cards,
		devices:       devices,
		notifications: notifications,
		google:        google,
		apple:         apple,
		queue:         queueClient,
		business:      business,
	}
}

// Create records the broadcast and schedules its delivery. When no queue
// is configured the fan-out runs inline so the feature still works on a
// single-process deployment.
func (s *BroadcastService) Create(ctx context.Context, input BroadcastInput) (*models.Notification, error) {
	if s == nil || s.notifications == nil {
		return nil, ErrBroadcastFailed
	}
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return nil, ErrNotificationInvalid
	}

	notification := &models.Notification{
		Title:     title,
		Message:   message,
		Kind:      constants.NotificationKindBroadcast,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(notification); err != nil {
		logger.Errorw("broadcast record failed", "error", err)
		return nil, ErrBroadcastFailed
	}

	if s.queue.Enabled() {
		if err := s.queue.EnqueueBroadcastPush(queue.BroadcastPushPayload{NotificationID: notification.ID}); err != nil {
			logger.Warnw("broadcast enqueue failed, delivering inline", "notification_id", notification.ID, "error", err)
			s.Deliver(ctx, notification.ID)
		}
	} else {
		s.Deliver(ctx, notification.ID)
	}
	return notification, nil
}

// Deliver runs the fan-out for a recorded broadcast and stores the
// per-platform delivery counters on the record.
func (s *BroadcastService) Deliver(ctx context.Context, notificationID uint) error {
	if s == nil || s.notifications == nil || s.cards == nil {
		return ErrBroadcastFailed
	}
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		logger.Errorw("broadcast fetch failed", "notification_id", notificationID, "error", err)
		return ErrBroadcastFailed
	}

	cards, err := s.cards.ListActive()
	if err != nil {
		logger.Errorw("broadcast card listing failed", "error", err)
		return ErrBroadcastFailed
	}

	delay := time.Duration(s.business.BroadcastDelayMS) * time.Millisecond
	googleSent, appleSent, errorCount := 0, 0, 0
	for i := range cards {
		card := &cards[i]
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		sentG, sentA, failed := s.deliverToCard(ctx, card, notification.Title, notification.Message)
		googleSent += sentG
		appleSent += sentA
		errorCount += failed
	}

	notification.GoogleSent = googleSent
	notification.AppleSent = appleSent
	notification.ErrorCount = errorCount
	if err := s.notifications.Update(notification); err != nil {
		logger.Errorw("broadcast counters persist failed", "notification_id", notificationID, "error", err)
	}
	logger.Infow("broadcast delivered",
		"notification_id", notificationID,
		"cards", len(cards),
		"google_sent", googleSent,
		"apple_sent", appleSent,
		"errors", errorCount)
	return nil
}

// deliverToCard pushes one broadcast to both platforms for one card.
// A card whose holder never saved the pass is skipped, not an error.
func (s *BroadcastService) deliverToCard(ctx context.Context, card *models.Card, title, message string) (googleSent, appleSent, errorCount int) {
	if s.google != nil {
		err := s.google.AddMessage(ctx, card.ID, title, message)
		switch {
		case err == nil:
			googleSent++
		case errors.Is(err, wallet.ErrObjectNotFound):
			// Pass never saved on the Google side.
		default:
			errorCount++
			logger.Warnw("broadcast google send failed", "card_id", card.ID, "error", err)
		}
	}

	if s.apple != nil && s.devices != nil {
		devices, err := s.devices.ListBySerial(constants.WalletPlatformApple, card.ID)
		if err != nil {
			errorCount++
			logger.Warnw("broadcast apple device lookup failed", "card_id", card.ID, "error", err)
			return
		}
		for i := range devices {
			if devices[i].PushToken == "" {
				continue
			}
			if err := s.apple.Alert(ctx, devices[i].PushToken, title, message); err != nil {
				errorCount++
				logger.Warnw("broadcast apple send failed", "card_id", card.ID, "device_id", devices[i].DeviceID, "error", err)
				continue
			}
			appleSent++
		}
	}
	return
}

// List returns the notification history.
func (s *BroadcastService) List(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	if s == nil || s.notifications == nil {
		return nil, 0, ErrBroadcastFailed
	}
	notifications, total, err := s.notifications.List(filter)
	if err != nil {
		logger.Errorw("notification list failed", "error", err)
		return nil, 0, ErrBroadcastFailed
	}
	return notifications, total, nil
}
