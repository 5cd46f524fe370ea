package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/calendar"
	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"

	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	openingHour     = 9
	closingHour     = 19
	slotStepMinutes = 30
)

// AppointmentService manages the shared booking slot pool and keeps the
// calendar mirrors in step with every lifecycle change.
type AppointmentService struct {
	repo          repository.AppointmentRepository
	cards         *CardService
	services      repository.ServiceRepository
	mirror        *calendar.Mirror
	notifications repository.NotificationRepository
	business      config.BusinessConfig
	location      *time.Location
}

// BookAppointmentInput books a new slot.
type BookAppointmentInput struct {
	ClientName  string
	ClientPhone string
	ServiceID   uint
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
}

// UpdateAppointmentInput reschedules or edits an appointment. Nil fields
// keep their current value.
type UpdateAppointmentInput struct {
	ClientName *string
	ServiceID  *uint
	Date       *string
	Time       *string
}

// NewAppointmentService creates the appointment service.
func NewAppointmentService(repo repository.AppointmentRepository, cards *CardService, services repository.ServiceRepository, mirror *calendar.Mirror, notifications repository.NotificationRepository, business config.BusinessConfig) *AppointmentService {
	location, err := time.LoadLocation(business.Timezone)
	if err != nil || location == nil {
		logger.Warnw("business timezone invalid, falling back to UTC", "timezone", business.Timezone)
		location = time.UTC
	}
	return &AppointmentService{
		repo:          repo,
		cards:         cards,
		services:      services,
		mirror:        mirror,
		notifications: notifications,
		business:      business,
		location:      location,
	}
}

// Location returns the business timezone.
func (s *AppointmentService) Location() *time.Location {
	if s == nil || s.location == nil {
		return time.UTC
	}
	return s.location
}

// Book creates an appointment after a conflict check inside the same
// transaction as the insert, so two racing bookings cannot share a slot.
// The client's loyalty card is resolved by phone and issued on the fly
// when missing.
func (s *AppointmentService) Book(input BookAppointmentInput) (*models.Appointment, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAppointmentCreateFailed
	}
	name := strings.TrimSpace(input.ClientName)
	if name == "" {
		return nil, ErrAppointmentInvalid
	}
	phone := NormalizePhone(input.ClientPhone, s.business.PhoneCountryCode)
	if phone == "" || len(phone) < 10 {
		return nil, ErrPhoneInvalid
	}
	svc, err := s.resolveService(input.ServiceID)
	if err != nil {
		return nil, err
	}
	startAt, endAt, err := s.resolveSlot(input.Date, input.Time, svc.DurationMinutes)
	if err != nil {
		return nil, err
	}

	cardID := s.resolveOrIssueCard(name, phone)

	now := time.Now()
	appointment := &models.Appointment{
		ClientName:      name,
		ClientPhone:     phone,
		CardID:          cardID,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		Date:            strings.TrimSpace(input.Date),
		Time:            strings.TrimSpace(input.Time),
		StartAt:         startAt,
		EndAt:           endAt,
		DurationMinutes: svc.DurationMinutes,
		Status:          constants.AppointmentStatusScheduled,
		Remind24h:       true,
		Remind2h:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		overlapping, err := repo.FindOverlapping(startAt, endAt, 0)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrSlotConflict
		}
		return repo.Create(appointment)
	}); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return nil, ErrSlotConflict
		}
		logger.Errorw("appointment create failed", "phone", phone, "error", err)
		return nil, ErrAppointmentCreateFailed
	}

	s.mirrorCreate(appointment)
	return appointment, nil
}

// Update edits the client name, service or slot of a live appointment.
// A slot change re-runs the conflict check excluding the appointment itself.
func (s *AppointmentService) Update(id uint, input UpdateAppointmentInput) (*models.Appointment, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAppointmentUpdateFailed
	}
	appointment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if constants.IsTerminalAppointmentStatus(appointment.Status) {
		return nil, ErrAppointmentTerminal
	}

	if input.ClientName != nil {
		name := strings.TrimSpace(*input.ClientName)
		if name == "" {
			return nil, ErrAppointmentInvalid
		}
		appointment.ClientName = name
	}
	if input.ServiceID != nil {
		svc, err := s.resolveService(*input.ServiceID)
		if err != nil {
			return nil, err
		}
		appointment.ServiceID = svc.ID
		appointment.ServiceName = svc.Name
		appointment.DurationMinutes = svc.DurationMinutes
	}

	date := appointment.Date
	clock := appointment.Time
	slotChanged := input.Date != nil || input.Time != nil || input.ServiceID != nil
	if input.Date != nil {
		date = strings.TrimSpace(*input.Date)
	}
	if input.Time != nil {
		clock = strings.TrimSpace(*input.Time)
	}
	if slotChanged {
		startAt, endAt, err := s.resolveSlot(date, clock, appointment.DurationMinutes)
		if err != nil {
			return nil, err
		}
		appointment.Date = date
		appointment.Time = clock
		appointment.StartAt = startAt
		appointment.EndAt = endAt
		// A reschedule resets the reminder flags so the new slot gets its
		// own reminders.
		appointment.Sent24hAt = nil
		appointment.Sent2hAt = nil
		appointment.ProposedDate = ""
		if appointment.Status == constants.AppointmentStatusRescheduling {
			appointment.Status = constants.AppointmentStatusScheduled
		}
	}
	appointment.UpdatedAt = time.Now()

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if slotChanged {
			overlapping, err := repo.FindOverlapping(appointment.StartAt, appointment.EndAt, appointment.ID)
			if err != nil {
				return err
			}
			if len(overlapping) > 0 {
				return ErrSlotConflict
			}
		}
		return repo.Update(appointment)
	}); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return nil, ErrSlotConflict
		}
		logger.Errorw("appointment update failed", "appointment_id", id, "error", err)
		return nil, ErrAppointmentUpdateFailed
	}

	s.mirrorUpdate(appointment)
	return appointment, nil
}

// UpdateStatus moves the appointment through its lifecycle. Terminal
// appointments reject further transitions; cancelling records the moment
// and reason and removes both calendar mirrors.
func (s *AppointmentService) UpdateStatus(id uint, status, reason string) (*models.Appointment, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAppointmentUpdateFailed
	}
	status = strings.TrimSpace(status)
	if !constants.IsValidAppointmentStatus(status) {
		return nil, ErrAppointmentStatusInvalid
	}
	appointment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == status {
		return appointment, nil
	}
	if constants.IsTerminalAppointmentStatus(appointment.Status) {
		return nil, ErrAppointmentTerminal
	}

	now := time.Now()
	appointment.Status = status
	appointment.UpdatedAt = now
	if status == constants.AppointmentStatusCancelled {
		appointment.CancelledAt = &now
		appointment.CancelReason = strings.TrimSpace(reason)
	}
	if err := s.repo.Update(appointment); err != nil {
		logger.Errorw("appointment status update failed", "appointment_id", id, "status", status, "error", err)
		return nil, ErrAppointmentUpdateFailed
	}

	if status == constants.AppointmentStatusCancelled {
		s.mirrorDelete(appointment)
		s.recordCancellation(appointment)
	} else {
		s.mirrorUpdate(appointment)
	}
	return appointment, nil
}

// recordCancellation keeps a dashboard-visible trace of every cancelled
// booking, whoever triggered it.
func (s *AppointmentService) recordCancellation(appointment *models.Appointment) {
	if s.notifications == nil {
		return
	}
	err := s.notifications.Create(&models.Notification{
		Title:     "Cita cancelada",
		Message:   fmt.Sprintf("%s canceló su cita de %s del %s %s", appointment.ClientName, appointment.ServiceName, appointment.Date, appointment.Time),
		Kind:      constants.NotificationKindCancel,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logger.Warnw("cancellation record failed", "appointment_id", appointment.ID, "error", err)
	}
}

// MarkProposedDate stores a client's free-form reschedule wish and parks
// the appointment in the rescheduling state.
func (s *AppointmentService) MarkProposedDate(id uint, proposed string) (*models.Appointment, error) {
	appointment, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if constants.IsTerminalAppointmentStatus(appointment.Status) {
		return nil, ErrAppointmentTerminal
	}
	appointment.Status = constants.AppointmentStatusRescheduling
	appointment.ProposedDate = strings.TrimSpace(proposed)
	appointment.UpdatedAt = time.Now()
	if err := s.repo.Update(appointment); err != nil {
		logger.Errorw("appointment reschedule mark failed", "appointment_id", id, "error", err)
		return nil, ErrAppointmentUpdateFailed
	}
	s.mirrorUpdate(appointment)
	return appointment, nil
}

// Get fetches an appointment by id.
func (s *AppointmentService) Get(id uint) (*models.Appointment, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAppointmentFetchFailed
	}
	appointment, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		logger.Errorw("appointment fetch failed", "appointment_id", id, "error", err)
		return nil, ErrAppointmentFetchFailed
	}
	return appointment, nil
}

// List returns appointments for the admin panel.
func (s *AppointmentService) List(filter repository.AppointmentListFilter) ([]models.Appointment, int64, error) {
	if s == nil || s.repo == nil {
		return nil, 0, ErrAppointmentFetchFailed
	}
	appointments, total, err := s.repo.List(filter)
	if err != nil {
		logger.Errorw("appointment list failed", "error", err)
		return nil, 0, ErrAppointmentFetchFailed
	}
	return appointments, total, nil
}

// FindConflicts returns live appointments overlapping [start, end).
func (s *AppointmentService) FindConflicts(start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	if s == nil || s.repo == nil {
		return nil, ErrAppointmentFetchFailed
	}
	if !start.Before(end) {
		return nil, ErrAppointmentInvalid
	}
	overlapping, err := s.repo.FindOverlapping(start, end, excludeID)
	if err != nil {
		logger.Errorw("appointment conflict check failed", "error", err)
		return nil, ErrAppointmentFetchFailed
	}
	return overlapping, nil
}

// AvailableTimes lists the free slot starts for a service on a date.
func (s *AppointmentService) AvailableTimes(date string, serviceID uint) ([]string, error) {
	svc, err := s.resolveService(serviceID)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), s.Location())
	if err != nil {
		return nil, ErrAppointmentInvalid
	}

	dayStart := day.Add(openingHour * time.Hour)
	dayEnd := day.Add(closingHour * time.Hour)
	busy, err := s.repo.FindOverlapping(dayStart, dayEnd, 0)
	if err != nil {
		logger.Errorw("availability lookup failed", "date", date, "error", err)
		return nil, ErrAppointmentFetchFailed
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	times := make([]string, 0)
	for slot := dayStart; !slot.Add(duration).After(dayEnd); slot = slot.Add(slotStepMinutes * time.Minute) {
		end := slot.Add(duration)
		free := true
		for i := range busy {
			if busy[i].Overlaps(slot, end) {
				free = false
				break
			}
		}
		if free {
			times = append(times, slot.Format(timeLayout))
		}
	}
	return times, nil
}

func (s *AppointmentService) resolveService(serviceID uint) (*models.Service, error) {
	if s.services == nil || serviceID == 0 {
		return nil, ErrServiceNotFound
	}
	svc, err := s.services.GetByID(serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		logger.Errorw("service fetch failed", "service_id", serviceID, "error", err)
		return nil, ErrAppointmentFetchFailed
	}
	if !svc.Active {
		return nil, ErrServiceNotFound
	}
	if svc.DurationMinutes <= 0 {
		return nil, ErrServiceInvalid
	}
	return svc, nil
}

func (s *AppointmentService) resolveSlot(date, clock string, durationMinutes int) (time.Time, time.Time, error) {
	raw := fmt.Sprintf("%s %s", strings.TrimSpace(date), strings.TrimSpace(clock))
	startAt, err := time.ParseInLocation(dateLayout+" "+timeLayout, raw, s.Location())
	if err != nil {
		return time.Time{}, time.Time{}, ErrAppointmentInvalid
	}
	if durationMinutes <= 0 {
		return time.Time{}, time.Time{}, ErrAppointmentInvalid
	}
	return startAt, startAt.Add(time.Duration(durationMinutes) * time.Minute), nil
}

// resolveOrIssueCard links the booking to the client's loyalty card,
// creating one when the phone is new. Card failures never block a booking.
func (s *AppointmentService) resolveOrIssueCard(name, phone string) *string {
	if s.cards == nil {
		return nil
	}
	card, err := s.cards.GetByPhone(phone)
	if err == nil {
		return &card.ID
	}
	if !errors.Is(err, ErrCardNotFound) {
		return nil
	}
	card, err = s.cards.Issue(IssueCardInput{Name: name, Phone: phone})
	if err != nil {
		logger.Warnw("loyalty card auto-issue failed", "phone", phone, "error", err)
		return nil
	}
	return &card.ID
}

func (s *AppointmentService) mirrorCreate(appointment *models.Appointment) {
	if s.mirror == nil {
		return
	}
	result := s.mirror.MirrorCreate(context.Background(), appointment)
	if result.EventID1 == "" && result.EventID2 == "" {
		return
	}
	appointment.CalendarEventID = result.EventID1
	appointment.CalendarEventID2 = result.EventID2
	if err := s.repo.Update(appointment); err != nil {
		logger.Warnw("calendar event id persist failed", "appointment_id", appointment.ID, "error", err)
	}
}

func (s *AppointmentService) mirrorUpdate(appointment *models.Appointment) {
	if s.mirror == nil {
		return
	}
	result := s.mirror.MirrorUpdate(context.Background(), appointment)
	if result.EventID1 == appointment.CalendarEventID && result.EventID2 == appointment.CalendarEventID2 {
		return
	}
	appointment.CalendarEventID = result.EventID1
	appointment.CalendarEventID2 = result.EventID2
	if err := s.repo.Update(appointment); err != nil {
		logger.Warnw("calendar event id persist failed", "appointment_id", appointment.ID, "error", err)
	}
}

func (s *AppointmentService) mirrorDelete(appointment *models.Appointment) {
	if s.mirror == nil {
		return
	}
	s.mirror.MirrorDelete(context.Background(), appointment)
	if appointment.CalendarEventID == "" && appointment.CalendarEventID2 == "" {
		return
	}
	appointment.CalendarEventID = ""
	appointment.CalendarEventID2 = ""
	if err := s.repo.Update(appointment); err != nil {
		logger.Warnw("calendar event id clear failed", "appointment_id", appointment.ID, "error", err)
	}
}
