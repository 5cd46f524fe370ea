package repository

import (
	"errors"
	"strings"

	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// ServiceListFilter filters the catalog listing.
type ServiceListFilter struct {
	Category   string
	ActiveOnly bool
}

// ServiceRepository is the catalog data access interface.
type ServiceRepository interface {
	Create(service *models.Service) error
	GetByID(id uint) (*models.Service, error)
	List(filter ServiceListFilter) ([]models.Service, error)
	Update(service *models.Service) error
	Delete(id uint) error
}

// GormServiceRepository is the GORM implementation.
type GormServiceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a catalog repository.
func NewServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Create persists a new catalog entry.
func (r *GormServiceRepository) Create(service *models.Service) error {
	if service == nil {
		return errors.New("invalid service")
	}
	return r.db.Create(service).Error
}

// GetByID fetches a catalog entry by id.
func (r *GormServiceRepository) GetByID(id uint) (*models.Service, error) {
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var service models.Service
	if err := r.db.First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns catalog entries matching the filter.
func (r *GormServiceRepository) List(filter ServiceListFilter) ([]models.Service, error) {
	query := r.db.Model(&models.Service{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	var services []models.Service
	if err := query.Order("category asc, name asc").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// Update persists catalog changes.
func (r *GormServiceRepository) Update(service *models.Service) error {
	if service == nil {
		return errors.New("invalid service")
	}
	return r.db.Save(service).Error
}

// Delete removes a catalog entry.
func (r *GormServiceRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Service{}, id).Error
}
