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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardService implements the loyalty card ledger: issue, stamp, redeem.
type CardService struct {
	repo       repository.CardRepository
	eventRepo  repository.CardEventRepository
	deviceRepo repository.WalletDeviceRepository
	walletPass *WalletPassService
	queue      *queue.Client
	business   config.BusinessConfig
}

// IssueCardInput creates a new card.
type IssueCardInput struct {
	Name      string
	Phone     string
	MaxStamps int
}

// NewCardService creates the card service.
func NewCardService(repo repository.CardRepository, eventRepo repository.CardEventRepository, deviceRepo repository.WalletDeviceRepository, walletPass *WalletPassService, queueClient *queue.Client, business config.BusinessConfig) *CardService {
	return &CardService{
		repo:       repo,
		eventRepo:  eventRepo,
		deviceRepo: deviceRepo,
		walletPass: walletPass,
		queue:      queueClient,
		business:   business,
	}
}

// Issue creates a card for a phone that has none yet.
func (s *CardService) Issue(input IssueCardInput) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardCreateFailed
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCardNameRequired
	}
	phone := NormalizePhone(input.Phone, s.business.PhoneCountryCode)
	if phone == "" {
		return nil, ErrCardPhoneRequired
	}
	if len(phone) < 10 {
		return nil, ErrPhoneInvalid
	}
	if existing, err := s.repo.GetByPhone(phone); err == nil && existing != nil {
		return nil, ErrCardExists
	}

	maxStamps := input.MaxStamps
	if maxStamps <= 0 {
		maxStamps = s.business.DefaultMaxStamps
	}
	if maxStamps <= 0 {
		maxStamps = 8
	}

	now := time.Now()
	card := &models.Card{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Stamps:    0,
		MaxStamps: maxStamps,
		Status:    constants.CardStatusActive,
		AuthToken: uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(card); err != nil {
			return err
		}
		return s.eventRepo.WithTx(tx).Append(&models.CardEvent{
			CardID:    card.ID,
			Type:      constants.CardEventIssue,
			CreatedAt: now,
		})
	}); err != nil {
		logger.Errorw("card issue failed", "phone", phone, "error", err)
		return nil, ErrCardCreateFailed
	}
	return card, nil
}

// Stamp adds one visit stamp. At most one stamp lands per rolling window so
// a double scan at the counter does not double-credit the visit.
func (s *CardService) Stamp(cardID string) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardUpdateFailed
	}
	minInterval := time.Duration(s.business.StampMinIntervalHours) * time.Hour
	if minInterval <= 0 {
		minInterval = 23 * time.Hour
	}

	var card *models.Card
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		events := s.eventRepo.WithTx(tx)

		found, err := repo.GetByID(cardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		if found.Stamps >= found.MaxStamps {
			return ErrCardAlreadyFull
		}
		last, err := events.LatestByType(found.ID, constants.CardEventStamp)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		lastRedeem, err := events.LatestByType(found.ID, constants.CardEventRedeem)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// A redeem starts a fresh cycle; stamps from before it no longer
		// count against the visit interval.
		if last != nil && lastRedeem != nil && !last.CreatedAt.After(lastRedeem.CreatedAt) {
			last = nil
		}
		now := time.Now()
		if last != nil && now.Sub(last.CreatedAt) < minInterval {
			return ErrStampRateLimited
		}

		found.Stamps++
		found.LastVisitAt = &now
		found.UpdatedAt = now
		if err := repo.Update(found); err != nil {
			return err
		}
		if err := events.Append(&models.CardEvent{
			CardID:    found.ID,
			Type:      constants.CardEventStamp,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		card = found
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCardNotFound), errors.Is(err, ErrCardAlreadyFull), errors.Is(err, ErrStampRateLimited):
			return nil, err
		}
		logger.Errorw("card stamp failed", "card_id", cardID, "error", err)
		return nil, ErrCardUpdateFailed
	}

	s.refreshWalletPass(card.ID)
	return card, nil
}

// Redeem consumes a full card: stamps reset to zero and the cycle counter
// advances. Partial cards cannot be redeemed.
func (s *CardService) Redeem(cardID string) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardUpdateFailed
	}
	var card *models.Card
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.GetByID(cardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		if found.Stamps < found.MaxStamps {
			return ErrCardIncomplete
		}

		now := time.Now()
		found.Stamps = 0
		found.Cycles++
		found.UpdatedAt = now
		if err := repo.Update(found); err != nil {
			return err
		}
		if err := s.eventRepo.WithTx(tx).Append(&models.CardEvent{
			CardID:    found.ID,
			Type:      constants.CardEventRedeem,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		card = found
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCardNotFound), errors.Is(err, ErrCardIncomplete):
			return nil, err
		}
		logger.Errorw("card redeem failed", "card_id", cardID, "error", err)
		return nil, ErrCardUpdateFailed
	}

	s.refreshWalletPass(card.ID)
	return card, nil
}

// Get fetches a card by id.
func (s *CardService) Get(cardID string) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		logger.Errorw("card fetch failed", "card_id", cardID, "error", err)
		return nil, ErrCardFetchFailed
	}
	return card, nil
}

// GetByPhone fetches a card by normalized phone.
func (s *CardService) GetByPhone(phone string) (*models.Card, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCardFetchFailed
	}
	normalized := NormalizePhone(phone, s.business.PhoneCountryCode)
	if normalized == "" {
		return nil, ErrCardNotFound
	}
	card, err := s.repo.GetByPhone(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		logger.Errorw("card fetch failed", "phone", normalized, "error", err)
		return nil, ErrCardFetchFailed
	}
	return card, nil
}

// List returns cards for the admin panel.
func (s *CardService) List(filter repository.CardListFilter) ([]models.Card, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrCardFetchFailed
	}
	cards, total, err := s.repo.List(filter)
	if err != nil {
		logger.Errorw("card list failed", "error", err)
		return nil, 0, ErrCardFetchFailed
	}
	return cards, total, nil
}

// Events returns the most recent ledger entries of a card.
func (s *CardService) Events(cardID string, limit int) ([]models.CardEvent, error) {
	if s == nil || s.eventRepo == nil {
		return nil, ErrCardFetchFailed
	}
	if _, err := s.Get(cardID); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByCard(cardID, limit)
	if err != nil {
		logger.Errorw("card events fetch failed", "card_id", cardID, "error", err)
		return nil, ErrCardFetchFailed
	}
	return events, nil
}

// Delete removes a card together with its ledger and wallet registrations.
// Deleting an unknown card is a no-op.
func (s *CardService) Delete(cardID string) error {
	if s == nil || s.repo == nil {
		return ErrCardDeleteFailed
	}
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return ErrCardDeleteFailed
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.WithTx(tx).DeleteByCard(cardID); err != nil {
			return err
		}
		if s.deviceRepo != nil {
			if err := s.deviceRepo.DeleteBySerial(cardID); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).Delete(cardID)
	})
	if err != nil {
		logger.Errorw("card delete failed", "card_id", cardID, "error", err)
		return ErrCardDeleteFailed
	}
	return nil
}

// refreshWalletPass queues a pass refresh, or delivers it inline when the
// queue is disabled or the enqueue fails. Delivery failures never surface
// to the caller; the ledger is the source of truth.
func (s *CardService) refreshWalletPass(cardID string) {
	if s.queue.Enabled() {
		err := s.queue.EnqueueWalletPassRefresh(queue.WalletPassRefreshPayload{CardID: cardID})
		if err == nil {
			return
		}
		logger.Warnw("wallet pass refresh enqueue failed, delivering inline", "card_id", cardID, "error", err)
	}
	if s.walletPass == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.walletPass.RefreshPass(ctx, cardID); err != nil {
		logger.Warnw("wallet pass refresh failed", "card_id", cardID, "error", err)
	}
}
