package repository

import (
	"errors"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// CardEventRepository is the ledger event data access interface.
type CardEventRepository interface {
	Append(event *models.CardEvent) error
	LatestByType(cardID, eventType string) (*models.CardEvent, error)
	ListByCard(cardID string, limit int) ([]models.CardEvent, error)
	DeleteByCard(cardID string) error
	WithTx(tx *gorm.DB) *GormCardEventRepository
}

// GormCardEventRepository is the GORM implementation.
type GormCardEventRepository struct {
	db *gorm.DB
}

// NewCardEventRepository creates a card event repository.
func NewCardEventRepository(db *gorm.DB) *GormCardEventRepository {
	return &GormCardEventRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCardEventRepository) WithTx(tx *gorm.DB) *GormCardEventRepository {
	if tx == nil {
		return r
	}
	return &GormCardEventRepository{db: tx}
}

// Append writes a ledger entry.
func (r *GormCardEventRepository) Append(event *models.CardEvent) error {
	if event == nil {
		return errors.New("invalid card event")
	}
	return r.db.Create(event).Error
}

// LatestByType returns the most recent event of the given type for a card,
// or nil when none exists.
func (r *GormCardEventRepository) LatestByType(cardID, eventType string) (*models.CardEvent, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, nil
	}
	var event models.CardEvent
	err := r.db.Where("card_id = ? AND type = ?", cardID, eventType).
		Order("id desc").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// ListByCard returns a card's ledger, newest first.
func (r *GormCardEventRepository) ListByCard(cardID string, limit int) ([]models.CardEvent, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return []models.CardEvent{}, nil
	}
	query := r.db.Where("card_id = ?", cardID).Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []models.CardEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteByCard removes every event of a card. Idempotent.
func (r *GormCardEventRepository) DeleteByCard(cardID string) error {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil
	}
	return r.db.Where("card_id = ?", cardID).Delete(&models.CardEvent{}).Error
}
