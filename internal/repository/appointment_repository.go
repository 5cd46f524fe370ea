package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// AppointmentListFilter filters the admin appointment listing.
type AppointmentListFilter struct {
	Date     string
	Status   string
	Phone    string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// blockingStatuses are the statuses that occupy the shared slot pool.
var blockingStatuses = []string{
	constants.AppointmentStatusScheduled,
	constants.AppointmentStatusConfirmed,
}

// AppointmentRepository is the appointment data access interface.
type AppointmentRepository interface {
	Create(appointment *models.Appointment) error
	GetByID(id uint) (*models.Appointment, error)
	List(filter AppointmentListFilter) ([]models.Appointment, int64, error)
	FindOverlapping(start, end time.Time, excludeID uint) ([]models.Appointment, error)
	FindDueForReminder(stage string, windowStart, windowEnd time.Time) ([]models.Appointment, error)
	FindUpcomingByPhone(phones []string, notBefore time.Time) (*models.Appointment, error)
	Update(appointment *models.Appointment) error
	WithTx(tx *gorm.DB) *GormAppointmentRepository
}

// GormAppointmentRepository is the GORM implementation.
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates an appointment repository.
func NewAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormAppointmentRepository) WithTx(tx *gorm.DB) *GormAppointmentRepository {
	if tx == nil {
		return r
	}
	return &GormAppointmentRepository{db: tx}
}

// Create persists a new appointment.
func (r *GormAppointmentRepository) Create(appointment *models.Appointment) error {
	if appointment == nil {
		return errors.New("invalid appointment")
	}
	return r.db.Create(appointment).Error
}

// GetByID fetches an appointment by id.
func (r *GormAppointmentRepository) GetByID(id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var appointment models.Appointment
	if err := r.db.First(&appointment, id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// List returns appointments matching the filter plus the total count.
func (r *GormAppointmentRepository) List(filter AppointmentListFilter) ([]models.Appointment, int64, error) {
	query := r.db.Model(&models.Appointment{})
	if date := strings.TrimSpace(filter.Date); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		query = query.Where("client_phone LIKE ?", "%"+phone+"%")
	}
	if filter.From != nil {
		query = query.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var appointments []models.Appointment
	if err := query.Order("start_at asc").Find(&appointments).Error; err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// FindOverlapping returns slot-blocking appointments whose interval
// intersects [start, end). Two intervals conflict iff
// existing.start < new.end AND existing.end > new.start.
func (r *GormAppointmentRepository) FindOverlapping(start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	query := r.db.Where("status IN ?", blockingStatuses).
		Where("start_at < ? AND end_at > ?", end, start)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var appointments []models.Appointment
	if err := query.Order("start_at asc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindDueForReminder returns appointments eligible for the given reminder
// stage: reminder enabled, not yet stamped, start inside the window, and a
// status that still expects the client.
func (r *GormAppointmentRepository) FindDueForReminder(stage string, windowStart, windowEnd time.Time) ([]models.Appointment, error) {
	query := r.db.Where("status IN ?", []string{
		constants.AppointmentStatusScheduled,
		constants.AppointmentStatusConfirmed,
		constants.AppointmentStatusRescheduling,
	}).Where("start_at >= ? AND start_at <= ?", windowStart, windowEnd)

	switch stage {
	case constants.ReminderStage24h:
		query = query.Where("remind_24h = ? AND sent_24h_at IS NULL", true)
	case constants.ReminderStage2h:
		query = query.Where("remind_2h = ? AND sent_2h_at IS NULL", true)
	default:
		return nil, errors.New("unknown reminder stage: " + stage)
	}

	var appointments []models.Appointment
	if err := query.Order("start_at asc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindUpcomingByPhone resolves the earliest upcoming appointment for any of
// the given phone candidates, restricted to statuses that can still react
// to a client reply.
func (r *GormAppointmentRepository) FindUpcomingByPhone(phones []string, notBefore time.Time) (*models.Appointment, error) {
	cleaned := make([]string, 0, len(phones))
	for _, p := range phones {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var appointment models.Appointment
	err := r.db.Where("client_phone IN ?", cleaned).
		Where("status IN ?", []string{
			constants.AppointmentStatusScheduled,
			constants.AppointmentStatusConfirmed,
			constants.AppointmentStatusRescheduling,
		}).
		Where("start_at >= ?", notBefore).
		Order("start_at asc").
		First(&appointment).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Update persists appointment changes.
func (r *GormAppointmentRepository) Update(appointment *models.Appointment) error {
	if appointment == nil {
		return errors.New("invalid appointment")
	}
	return r.db.Save(appointment).Error
}
