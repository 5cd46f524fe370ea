package service

import (
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
)

// DashboardOverview is the admin landing page summary.
type DashboardOverview struct {
	TodayAppointments    int64 `json:"today_appointments"`
	UpcomingAppointments int64 `json:"upcoming_appointments"`
	PendingReschedules   int64 `json:"pending_reschedules"`
	ActiveCards          int64 `json:"active_cards"`
	StampsToday          int64 `json:"stamps_today"`
	RedeemedCycles       int64 `json:"redeemed_cycles"`
}

// DashboardService aggregates the admin overview numbers.
type DashboardService struct {
	location *time.Location
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(location *time.Location) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{location: location}
}

// Overview computes today's summary in the business timezone.
func (s *DashboardService) Overview() (*DashboardOverview, error) {
	now := time.Now().In(s.location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.Add(24 * time.Hour)

	overview := &DashboardOverview{}
	queries := []struct {
		name string
		run  func() error
	}{
		{"today_appointments", func() error {
			return models.DB.Model(&models.Appointment{}).
				Where("start_at >= ? AND start_at < ?", dayStart, dayEnd).
				Where("status <> ?", constants.AppointmentStatusCancelled).
				Count(&overview.TodayAppointments).Error
		}},
		{"upcoming_appointments", func() error {
			return models.DB.Model(&models.Appointment{}).
				Where("start_at >= ?", now).
				Where("status IN ?", []string{constants.AppointmentStatusScheduled, constants.AppointmentStatusConfirmed}).
				Count(&overview.UpcomingAppointments).Error
		}},
		{"pending_reschedules", func() error {
			return models.DB.Model(&models.Appointment{}).
				Where("status = ?", constants.AppointmentStatusRescheduling).
				Count(&overview.PendingReschedules).Error
		}},
		{"active_cards", func() error {
			return models.DB.Model(&models.Card{}).
				Where("status = ?", constants.CardStatusActive).
				Count(&overview.ActiveCards).Error
		}},
		{"stamps_today", func() error {
			return models.DB.Model(&models.CardEvent{}).
				Where("type = ?", constants.CardEventStamp).
				Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
				Count(&overview.StampsToday).Error
		}},
		{"redeemed_cycles", func() error {
			return models.DB.Model(&models.CardEvent{}).
				Where("type = ?", constants.CardEventRedeem).
				Count(&overview.RedeemedCycles).Error
		}},
	}
	for _, q := range queries {
		if err := q.run(); err != nil {
			logger.Errorw("dashboard query failed", "query", q.name, "error", err)
			return nil, ErrCardFetchFailed
		}
	}
	return overview, nil
}
