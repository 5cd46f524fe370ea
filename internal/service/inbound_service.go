package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"

	"gorm.io/gorm"
)

// Inbound actions derived from a client's reply.
const (
	InboundActionConfirm     = "confirm"
	InboundActionReschedule  = "reschedule"
	InboundActionCancel      = "cancel"
	InboundActionProposeDate = "propose_date"
)

// rescheduleKeywords are the Spanish replies treated as a reschedule wish.
var rescheduleKeywords = []string{"reagendar", "cambio", "cambiar", "reprogramar", "otro dia", "otro día"}

// InboundResult reports what an inbound message did.
type InboundResult struct {
	Action      string
	Appointment *models.Appointment
	Reply       string
}

// InboundService turns client WhatsApp replies into appointment
// transitions. The sender phone is matched against upcoming appointments
// so the client never has to quote a booking reference.
type InboundService struct {
	appointments *AppointmentService
	repo         repository.AppointmentRepository
	sender       whatsapp.Sender
	business     config.BusinessConfig
}

// NewInboundService creates the inbound service.
func NewInboundService(appointments *AppointmentService, repo repository.AppointmentRepository, sender whatsapp.Sender, business config.BusinessConfig) *InboundService {
	return &InboundService{
		appointments: appointments,
		repo:         repo,
		sender:       sender,
		business:     business,
	}
}

// Handle processes one inbound message. Unrecognized text returns
// ErrInboundIgnored unless the sender is mid-reschedule, in which case
// the text is captured as the proposed date. A recognized keyword with
// no live appointment returns ErrNoMatchingAppointment. Both errors are
// normal outcomes for the webhook, which always answers the provider
// with success.
func (s *InboundService) Handle(ctx context.Context, message whatsapp.InboundMessage) (*InboundResult, error) {
	if s == nil || s.repo == nil {
		return nil, ErrInboundIgnored
	}
	action := classifyInbound(message.Text)
	if action == "" {
		return s.captureProposedDate(ctx, message)
	}

	appointment, err := s.matchAppointment(message.From)
	if err != nil {
		return nil, err
	}

	result := &InboundResult{Action: action, Appointment: appointment}
	switch action {
	case InboundActionConfirm:
		updated, err := s.appointments.UpdateStatus(appointment.ID, constants.AppointmentStatusConfirmed, "")
		if err != nil {
			return nil, err
		}
		result.Appointment = updated
		result.Reply = fmt.Sprintf("¡Gracias %s! Tu cita del %s a las %s está confirmada. ✅", updated.ClientName, updated.Date, updated.Time)
	case InboundActionReschedule:
		updated, err := s.appointments.MarkProposedDate(appointment.ID, message.Text)
		if err != nil {
			return nil, err
		}
		result.Appointment = updated
		result.Reply = "Entendido, en breve te contactamos para reagendar tu cita. 🔁"
	case InboundActionCancel:
		updated, err := s.appointments.UpdateStatus(appointment.ID, constants.AppointmentStatusCancelled, "cancelada por la clienta")
		if err != nil {
			return nil, err
		}
		result.Appointment = updated
		result.Reply = "Tu cita ha sido cancelada. Esperamos verte pronto. 💜"
	}

	s.reply(ctx, appointment.ClientPhone, result.Reply)
	return result, nil
}

// captureProposedDate handles free-form text from a client already in a
// reschedule conversation: the message is kept as the proposed new date.
func (s *InboundService) captureProposedDate(ctx context.Context, message whatsapp.InboundMessage) (*InboundResult, error) {
	appointment, err := s.matchAppointment(message.From)
	if err != nil || appointment.Status != constants.AppointmentStatusRescheduling {
		return nil, ErrInboundIgnored
	}
	updated, err := s.appointments.MarkProposedDate(appointment.ID, message.Text)
	if err != nil {
		return nil, err
	}
	result := &InboundResult{
		Action:      InboundActionProposeDate,
		Appointment: updated,
		Reply:       "¡Perfecto! Revisamos la disponibilidad y te confirmamos. 🗓️",
	}
	s.reply(ctx, updated.ClientPhone, result.Reply)
	return result, nil
}

// matchAppointment finds the sender's next live appointment. Appointments
// that started less than two hours ago still match, so a reply sent while
// sitting in the chair lands on the right booking.
func (s *InboundService) matchAppointment(from string) (*models.Appointment, error) {
	candidates := PhoneCandidates(from, s.business.PhoneCountryCode)
	if len(candidates) == 0 {
		return nil, ErrNoMatchingAppointment
	}
	notBefore := time.Now().Add(-2 * time.Hour)
	appointment, err := s.repo.FindUpcomingByPhone(candidates, notBefore)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMatchingAppointment
		}
		logger.Errorw("inbound appointment match failed", "from", from, "error", err)
		return nil, ErrNoMatchingAppointment
	}
	return appointment, nil
}

func (s *InboundService) reply(ctx context.Context, to, text string) {
	if s.sender == nil || text == "" {
		return
	}
	if err := s.sender.SendText(ctx, to, text); err != nil {
		logger.Warnw("inbound reply send failed", "to", to, "error", err)
	}
}

// classifyInbound maps free text to an action. Matching is keyword based
// and accent insensitive enough for the replies clients actually send.
func classifyInbound(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return ""
	}
	switch {
	case strings.Contains(normalized, "confirmar"), strings.Contains(normalized, "confirmo"), normalized == "si", normalized == "sí":
		return InboundActionConfirm
	case containsAny(normalized, rescheduleKeywords):
		return InboundActionReschedule
	case strings.Contains(normalized, "cancelar"), strings.Contains(normalized, "cancelo"), strings.Contains(normalized, "cancela"):
		return InboundActionCancel
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
