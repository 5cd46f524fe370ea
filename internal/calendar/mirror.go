package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"
)

// statusDecoration maps an appointment status to the event color and the
// emoji prefix used in the event title, so the external calendar view
// communicates lifecycle state on its own.
type statusDecoration struct {
	ColorID string
	Emoji   string
}

var statusDecorations = map[string]statusDecoration{
	constants.AppointmentStatusScheduled:    {ColorID: "9", Emoji: "📅"},  // blue
	constants.AppointmentStatusConfirmed:    {ColorID: "10", Emoji: "✅"}, // green
	constants.AppointmentStatusRescheduling: {ColorID: "5", Emoji: "🔁"},  // yellow
	constants.AppointmentStatusCompleted:    {ColorID: "2", Emoji: "✔️"}, // basil
	constants.AppointmentStatusCancelled:    {ColorID: "8", Emoji: "🚫"},  // graphite
	constants.AppointmentStatusNoShow:       {ColorID: "11", Emoji: "❌"}, // red
}

// MirrorResult carries the event ids returned by a mirror create.
type MirrorResult struct {
	EventID1 string
	EventID2 string
}

// Mirror replicates one appointment to two independent calendar identities.
// Every call is best-effort per identity: a failure on one calendar is
// logged and never blocks the other, and Mirror methods never return an
// error to the caller that triggered the write.
type Mirror struct {
	first  API
	second API
}

// NewMirror builds the dual mirror. Either API may be nil (identity not
// configured); the corresponding side is skipped.
func NewMirror(first, second API) *Mirror {
	return &Mirror{first: first, second: second}
}

// BuildEvent renders an appointment as a calendar event payload.
func BuildEvent(appointment *models.Appointment) Event {
	deco, ok := statusDecorations[appointment.Status]
	if !ok {
		deco = statusDecorations[constants.AppointmentStatusScheduled]
	}
	return Event{
		Summary: fmt.Sprintf("%s %s - %s", deco.Emoji, appointment.ServiceName, appointment.ClientName),
		Description: fmt.Sprintf("Tel: %s\nServicio: %s\nEstado: %s",
			appointment.ClientPhone, appointment.ServiceName, appointment.Status),
		Start:   appointment.StartAt,
		End:     appointment.EndAt,
		ColorID: deco.ColorID,
	}
}

// MirrorCreate pushes a new appointment to both calendars. Per-calendar
// failures leave the corresponding id empty.
func (m *Mirror) MirrorCreate(ctx context.Context, appointment *models.Appointment) MirrorResult {
	if m == nil || appointment == nil {
		return MirrorResult{}
	}
	event := BuildEvent(appointment)
	result := MirrorResult{}
	result.EventID1 = m.createOn(ctx, m.first, 1, appointment.ID, event)
	result.EventID2 = m.createOn(ctx, m.second, 2, appointment.ID, event)
	return result
}

// MirrorUpdate pushes appointment changes to both calendars. A missing id
// falls back to create; a vanished event (deleted externally) is recreated.
// Returned ids reflect the post-call state for both mirrors.
func (m *Mirror) MirrorUpdate(ctx context.Context, appointment *models.Appointment) MirrorResult {
	if m == nil || appointment == nil {
		return MirrorResult{}
	}
	event := BuildEvent(appointment)
	return MirrorResult{
		EventID1: m.updateOn(ctx, m.first, 1, appointment.ID, appointment.CalendarEventID, event),
		EventID2: m.updateOn(ctx, m.second, 2, appointment.ID, appointment.CalendarEventID2, event),
	}
}

// MirrorDelete removes both mirrored events. Already-gone events count as
// success.
func (m *Mirror) MirrorDelete(ctx context.Context, appointment *models.Appointment) {
	if m == nil || appointment == nil {
		return
	}
	m.deleteOn(ctx, m.first, 1, appointment.ID, appointment.CalendarEventID)
	m.deleteOn(ctx, m.second, 2, appointment.ID, appointment.CalendarEventID2)
}

func (m *Mirror) createOn(ctx context.Context, api API, slot int, appointmentID uint, event Event) string {
	if api == nil {
		return ""
	}
	id, err := api.CreateEvent(ctx, event)
	if err != nil {
		logger.Warnw("calendar_mirror_create_failed",
			"appointment_id", appointmentID,
			"calendar_slot", slot,
			"error", err,
		)
		return ""
	}
	return id
}

func (m *Mirror) updateOn(ctx context.Context, api API, slot int, appointmentID uint, eventID string, event Event) string {
	if api == nil {
		return eventID
	}
	if eventID == "" {
		return m.createOn(ctx, api, slot, appointmentID, event)
	}
	err := api.UpdateEvent(ctx, eventID, event)
	if err == nil {
		return eventID
	}
	if errors.Is(err, ErrEventNotFound) {
		// The event was deleted on the calendar side; drop the stale
		// mapping and recreate.
		logger.Infow("calendar_mirror_recreate_stale_event",
			"appointment_id", appointmentID,
			"calendar_slot", slot,
			"stale_event_id", eventID,
		)
		return m.createOn(ctx, api, slot, appointmentID, event)
	}
	logger.Warnw("calendar_mirror_update_failed",
		"appointment_id", appointmentID,
		"calendar_slot", slot,
		"event_id", eventID,
		"error", err,
	)
	return eventID
}

func (m *Mirror) deleteOn(ctx context.Context, api API, slot int, appointmentID uint, eventID string) {
	if api == nil || eventID == "" {
		return
	}
	err := api.DeleteEvent(ctx, eventID)
	if err == nil || errors.Is(err, ErrEventNotFound) {
		return
	}
	logger.Warnw("calendar_mirror_delete_failed",
		"appointment_id", appointmentID,
		"calendar_slot", slot,
		"event_id", eventID,
		"error", err,
	)
}
