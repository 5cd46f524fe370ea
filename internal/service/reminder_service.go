package service

import (
	"context"
	"time"

	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"
)

// reminderStage binds a sweep stage to its lead time and message template.
type reminderStage struct {
	Name     string
	Lead     time.Duration
	Template string
}

// ReminderService sweeps upcoming appointments and sends the 24 hour and
// 2 hour WhatsApp reminders. Each stage is sent at most once per
// appointment; the sent timestamp is the idempotency marker, so a failed
// send is retried on the next sweep.
type ReminderService struct {
	repo     repository.AppointmentRepository
	sender   whatsapp.Sender
	cfg      config.RemindersConfig
	wa       config.WhatsAppConfig
	location *time.Location
}

// NewReminderService creates the reminder service.
func NewReminderService(repo repository.AppointmentRepository, sender whatsapp.Sender, cfg config.RemindersConfig, wa config.WhatsAppConfig, business config.BusinessConfig) *ReminderService {
	location, err := time.LoadLocation(business.Timezone)
	if err != nil || location == nil {
		location = time.UTC
	}
	return &ReminderService{
		repo:     repo,
		sender:   sender,
		cfg:      cfg,
		wa:       wa,
		location: location,
	}
}

// Interval returns how often the sweep should run.
func (s *ReminderService) Interval() time.Duration {
	minutes := 30
	if s != nil && s.cfg.IntervalMinutes > 0 {
		minutes = s.cfg.IntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (s *ReminderService) slack() time.Duration {
	minutes := 30
	if s != nil && s.cfg.WindowSlackMinutes > 0 {
		minutes = s.cfg.WindowSlackMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (s *ReminderService) stages() []reminderStage {
	return []reminderStage{
		{Name: constants.ReminderStage24h, Lead: 24 * time.Hour, Template: s.wa.Template24h},
		{Name: constants.ReminderStage2h, Lead: 2 * time.Hour, Template: s.wa.Template2h},
	}
}

// Sweep runs both stages once. Returns the number of reminders sent.
func (s *ReminderService) Sweep(ctx context.Context) int {
	if s == nil || s.repo == nil || s.sender == nil {
		return 0
	}
	now := time.Now()
	sent := 0
	for _, stage := range s.stages() {
		sent += s.sweepStage(ctx, stage, now)
	}
	return sent
}

func (s *ReminderService) sweepStage(ctx context.Context, stage reminderStage, now time.Time) int {
	slack := s.slack()
	windowStart := now.Add(stage.Lead - slack)
	windowEnd := now.Add(stage.Lead + slack)

	due, err := s.repo.FindDueForReminder(stage.Name, windowStart, windowEnd)
	if err != nil {
		logger.Errorw("reminder sweep query failed", "stage", stage.Name, "error", err)
		return 0
	}
	sent := 0
	for i := range due {
		appointment := &due[i]
		if err := s.dispatch(ctx, stage, appointment); err != nil {
			// Leave the sent marker unset so the next sweep retries while
			// the appointment is still inside the window.
			logger.Warnw("reminder send failed",
				"stage", stage.Name,
				"appointment_id", appointment.ID,
				"phone", appointment.ClientPhone,
				"error", err)
			continue
		}
		sentAt := time.Now()
		switch stage.Name {
		case constants.ReminderStage24h:
			appointment.Sent24hAt = &sentAt
		case constants.ReminderStage2h:
			appointment.Sent2hAt = &sentAt
		}
		appointment.UpdatedAt = sentAt
		if err := s.repo.Update(appointment); err != nil {
			logger.Errorw("reminder marker persist failed", "appointment_id", appointment.ID, "error", err)
			continue
		}
		sent++
	}
	if sent > 0 {
		logger.Infow("reminder sweep done", "stage", stage.Name, "sent", sent, "due", len(due))
	}
	return sent
}

func (s *ReminderService) dispatch(ctx context.Context, stage reminderStage, appointment *models.Appointment) error {
	local := appointment.StartAt.In(s.location)
	return s.sender.SendTemplate(ctx, whatsapp.TemplateMessage{
		To:       appointment.ClientPhone,
		Template: stage.Template,
		Params: map[string]string{
			"name":    appointment.ClientName,
			"service": appointment.ServiceName,
			"date":    local.Format(dateLayout),
			"time":    local.Format(timeLayout),
		},
	})
}
