package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/wallet"

	"gorm.io/gorm"
)

// WalletPassService backs the wallet web service endpoints (device
// registration, serial listing) and pushes pass refreshes to both
// platforms when a card changes.
type WalletPassService struct {
	cards   repository.CardRepository
	devices repository.WalletDeviceRepository
	google  wallet.GooglePass
	apple   wallet.ApplePush
}

// RegisterDeviceInput registers a device for pass update pushes.
type RegisterDeviceInput struct {
	Platform     string
	DeviceID     string
	SerialNumber string // card id
	PassTypeID   string
	PushToken    string
}

// NewWalletPassService creates the wallet pass service.
func NewWalletPassService(cards repository.CardRepository, devices repository.WalletDeviceRepository, google wallet.GooglePass, apple wallet.ApplePush) *WalletPassService {
	return &WalletPassService{
		cards:   cards,
		devices: devices,
		google:  google,
		apple:   apple,
	}
}

// Authorize checks a card's pass auth token. The serial number of a pass
// is the card id, the token travels in the Authorization header.
func (s *WalletPassService) Authorize(serialNumber, token string) (*models.Card, error) {
	if s == nil || s.cards == nil {
		return nil, ErrWalletAuthInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrWalletAuthInvalid
	}
	card, err := s.cards.GetByID(serialNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, ErrCardFetchFailed
	}
	if subtle.ConstantTimeCompare([]byte(card.AuthToken), []byte(token)) != 1 {
		return nil, ErrWalletAuthInvalid
	}
	return card, nil
}

// RegisterDevice stores a device registration. Registering the same
// device twice is a no-op; the returned flag reports whether a new
// registration was created.
func (s *WalletPassService) RegisterDevice(input RegisterDeviceInput) (bool, error) {
	if s == nil || s.devices == nil {
		return false, ErrWalletPlatform
	}
	platform := strings.TrimSpace(input.Platform)
	if platform != constants.WalletPlatformApple && platform != constants.WalletPlatformGoogle {
		return false, ErrWalletPlatform
	}
	deviceID := strings.TrimSpace(input.DeviceID)
	serial := strings.TrimSpace(input.SerialNumber)
	if deviceID == "" || serial == "" {
		return false, ErrWalletPlatform
	}
	created, err := s.devices.Register(&models.WalletDevice{
		Platform:     platform,
		DeviceID:     deviceID,
		SerialNumber: serial,
		PassTypeID:   strings.TrimSpace(input.PassTypeID),
		PushToken:    strings.TrimSpace(input.PushToken),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		logger.Errorw("wallet device register failed", "platform", platform, "serial", serial, "error", err)
		return false, ErrCardUpdateFailed
	}
	return created, nil
}

// UnregisterDevice drops one device registration.
func (s *WalletPassService) UnregisterDevice(platform, deviceID, serialNumber string) error {
	if s == nil || s.devices == nil {
		return ErrWalletPlatform
	}
	if err := s.devices.Unregister(platform, deviceID, serialNumber); err != nil {
		logger.Errorw("wallet device unregister failed", "platform", platform, "serial", serialNumber, "error", err)
		return ErrCardUpdateFailed
	}
	return nil
}

// ListUpdatedSerials returns the serial numbers a device should re-fetch.
func (s *WalletPassService) ListUpdatedSerials(platform, deviceID string, updatedSince *time.Time) ([]string, error) {
	if s == nil || s.devices == nil {
		return nil, ErrWalletPlatform
	}
	serials, err := s.devices.ListSerialsByDevice(platform, deviceID, updatedSince)
	if err != nil {
		logger.Errorw("wallet serial listing failed", "platform", platform, "device_id", deviceID, "error", err)
		return nil, ErrCardFetchFailed
	}
	return serials, nil
}

// RefreshPass pushes the card's current state to Google and nudges every
// registered Apple device to re-fetch its pass. Failures are logged per
// platform; the refresh never fails the ledger operation that queued it.
func (s *WalletPassService) RefreshPass(ctx context.Context, cardID string) error {
	if s == nil || s.cards == nil {
		return ErrCardFetchFailed
	}
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return ErrCardFetchFailed
	}

	if s.google != nil {
		err := s.google.UpsertObject(ctx, wallet.CardState{
			SerialNumber: card.ID,
			HolderName:   card.Name,
			Stamps:       card.Stamps,
			MaxStamps:    card.MaxStamps,
		})
		if err != nil {
			logger.Warnw("google pass refresh failed", "card_id", card.ID, "error", err)
		}
	}

	if s.apple != nil && s.devices != nil {
		devices, err := s.devices.ListBySerial(constants.WalletPlatformApple, card.ID)
		if err != nil {
			logger.Warnw("apple device lookup failed", "card_id", card.ID, "error", err)
			return nil
		}
		for i := range devices {
			if devices[i].PushToken == "" {
				continue
			}
			if err := s.apple.NotifyPassUpdate(ctx, devices[i].PushToken); err != nil {
				logger.Warnw("apple pass refresh push failed",
					"card_id", card.ID,
					"device_id", devices[i].DeviceID,
					"error", err)
			}
		}
	}
	return nil
}
