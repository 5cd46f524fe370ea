package repository

import (
	"errors"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// NotificationListFilter filters the notification history listing.
type NotificationListFilter struct {
	Kind     string
	Page     int
	PageSize int
}

// NotificationRepository is the notification history data access interface.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id uint) (*models.Notification, error)
	Update(notification *models.Notification) error
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
}

// GormNotificationRepository is the GORM implementation.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a history record.
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	if notification == nil {
		return errors.New("invalid notification")
	}
	return r.db.Create(notification).Error
}

// GetByID fetches a history record.
func (r *GormNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// Update persists delivery counters.
func (r *GormNotificationRepository) Update(notification *models.Notification) error {
	if notification == nil || notification.ID == 0 {
		return errors.New("invalid notification")
	}
	return r.db.Save(notification).Error
}

// List returns history records, newest first.
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})
	if kind := strings.TrimSpace(filter.Kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var notifications []models.Notification
	if err := query.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
