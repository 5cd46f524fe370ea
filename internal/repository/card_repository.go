package repository

import (
	"errors"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// CardListFilter filters the admin card listing.
type CardListFilter struct {
	Search   string // matches name or phone
	Status   string
	Page     int
	PageSize int
}

// CardRepository is the loyalty card data access interface.
type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id string) (*models.Card, error)
	GetByPhone(phone string) (*models.Card, error)
	List(filter CardListFilter) ([]models.Card, int64, error)
	ListActive() ([]models.Card, error)
	Update(card *models.Card) error
	Delete(id string) error
	WithTx(tx *gorm.DB) *GormCardRepository
}

// GormCardRepository is the GORM implementation.
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a card repository.
func NewCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCardRepository) WithTx(tx *gorm.DB) *GormCardRepository {
	if tx == nil {
		return r
	}
	return &GormCardRepository{db: tx}
}

// Create persists a new card.
func (r *GormCardRepository) Create(card *models.Card) error {
	if card == nil {
		return errors.New("invalid card")
	}
	return r.db.Create(card).Error
}

// GetByID fetches a card by id.
func (r *GormCardRepository) GetByID(id string) (*models.Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var card models.Card
	if err := r.db.Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByPhone fetches a card by its normalized phone.
func (r *GormCardRepository) GetByPhone(phone string) (*models.Card, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var card models.Card
	if err := r.db.Where("phone = ?", phone).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// List returns cards matching the filter plus the total count.
func (r *GormCardRepository) List(filter CardListFilter) ([]models.Card, int64, error) {
	query := r.db.Model(&models.Card{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var cards []models.Card
	if err := query.Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// ListActive returns every active card, ordered by creation.
func (r *GormCardRepository) ListActive() ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Where("status = ?", "active").Order("created_at asc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Update persists card changes.
func (r *GormCardRepository) Update(card *models.Card) error {
	if card == nil {
		return errors.New("invalid card")
	}
	return r.db.Save(card).Error
}

// Delete removes a card by id.
func (r *GormCardRepository) Delete(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return r.db.Where("id = ?", id).Delete(&models.Card{}).Error
}
