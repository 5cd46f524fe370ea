package service

import (
	"errors"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService manages the bookable service catalog.
type CatalogService struct {
	repo repository.ServiceRepository
}

// ServiceInput creates or updates a catalog entry.
type ServiceInput struct {
	Name            string
	Price           models.Money
	DurationMinutes int
	Category        string
	Active          *bool
}

// NewCatalogService creates the catalog service.
func NewCatalogService(repo repository.ServiceRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Create adds a catalog entry.
func (s *CatalogService) Create(input ServiceInput) (*models.Service, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceInvalid
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || input.DurationMinutes <= 0 {
		return nil, ErrServiceInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrServiceInvalid
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	now := time.Now()
	svc := &models.Service{
		Name:            name,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		Category:        strings.TrimSpace(input.Category),
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(svc); err != nil {
		logger.Errorw("service create failed", "name", name, "error", err)
		return nil, ErrServiceInvalid
	}
	return svc, nil
}

// Update edits a catalog entry.
func (s *CatalogService) Update(id uint, input ServiceInput) (*models.Service, error) {
	svc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		svc.Name = name
	}
	if input.DurationMinutes > 0 {
		svc.DurationMinutes = input.DurationMinutes
	}
	if input.Price.Decimal.GreaterThan(decimal.Zero) {
		svc.Price = input.Price
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		svc.Category = category
	}
	if input.Active != nil {
		svc.Active = *input.Active
	}
	svc.UpdatedAt = time.Now()
	if err := s.repo.Update(svc); err != nil {
		logger.Errorw("service update failed", "service_id", id, "error", err)
		return nil, ErrServiceInvalid
	}
	return svc, nil
}

// Get fetches a catalog entry.
func (s *CatalogService) Get(id uint) (*models.Service, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceNotFound
	}
	svc, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		logger.Errorw("service fetch failed", "service_id", id, "error", err)
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// List returns catalog entries.
func (s *CatalogService) List(filter repository.ServiceListFilter) ([]models.Service, error) {
	if s == nil || s.repo == nil {
		return nil, ErrServiceNotFound
	}
	services, err := s.repo.List(filter)
	if err != nil {
		logger.Errorw("service list failed", "error", err)
		return nil, ErrServiceNotFound
	}
	return services, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(id uint) error {
	if s == nil || s.repo == nil {
		return ErrServiceNotFound
	}
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		logger.Errorw("service delete failed", "service_id", id, "error", err)
		return ErrServiceInvalid
	}
	return nil
}
