package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeWhatsAppSender records outbound traffic.
type fakeWhatsAppSender struct {
	mu        sync.Mutex
	templates []whatsapp.TemplateMessage
	texts     []string
	fail      bool
}

func (f *fakeWhatsAppSender) SendTemplate(_ context.Context, message whatsapp.TemplateMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("gateway unavailable")
	}
	f.templates = append(f.templates, message)
	return nil
}

func (f *fakeWhatsAppSender) SendText(_ context.Context, to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("gateway unavailable")
	}
	f.texts = append(f.texts, to+": "+text)
	return nil
}

func setupReminderServiceTest(t *testing.T) (*ReminderService, *fakeWhatsAppSender, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:reminder_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Appointment{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	sender := &fakeWhatsAppSender{}
	svc := NewReminderService(
		repository.NewAppointmentRepository(db),
		sender,
		config.RemindersConfig{IntervalMinutes: 30, WindowSlackMinutes: 30},
		config.WhatsAppConfig{Template24h: "recordatorio_24h", Template2h: "recordatorio_2h"},
		config.BusinessConfig{Timezone: "UTC"},
	)
	return svc, sender, db
}

func seedReminderAppointment(t *testing.T, db *gorm.DB, startAt time.Time) *models.Appointment {
	t.Helper()
	appointment := &models.Appointment{
		ClientName:      "Ana",
		ClientPhone:     "525512345678",
		ServiceID:       1,
		ServiceName:     "Corte de cabello",
		Date:            startAt.UTC().Format("2006-01-02"),
		Time:            startAt.UTC().Format("15:04"),
		StartAt:         startAt,
		EndAt:           startAt.Add(60 * time.Minute),
		DurationMinutes: 60,
		Status:          constants.AppointmentStatusScheduled,
		Remind24h:       true,
		Remind2h:        true,
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("seed appointment failed: %v", err)
	}
	return appointment
}

func TestReminderSweepSendsBothStages(t *testing.T) {
	svc, sender, db := setupReminderServiceTest(t)
	now := time.Now()
	in24h := seedReminderAppointment(t, db, now.Add(24*time.Hour))
	in2h := seedReminderAppointment(t, db, now.Add(2*time.Hour).Add(30*time.Minute))
	seedReminderAppointment(t, db, now.Add(72*time.Hour)) // outside both windows

	sent := svc.Sweep(context.Background())
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if len(sender.templates) != 2 {
		t.Fatalf("expected 2 template sends, got %d", len(sender.templates))
	}
	byTemplate := map[string]whatsapp.TemplateMessage{}
	for _, msg := range sender.templates {
		byTemplate[msg.Template] = msg
	}
	if msg, ok := byTemplate["recordatorio_24h"]; !ok || msg.To != "525512345678" {
		t.Fatalf("expected 24h reminder, got %+v", sender.templates)
	}
	if msg, ok := byTemplate["recordatorio_2h"]; !ok || msg.Params["service"] != "Corte de cabello" {
		t.Fatalf("expected 2h reminder with params, got %+v", sender.templates)
	}

	var reloaded models.Appointment
	if err := db.First(&reloaded, in24h.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Sent24hAt == nil {
		t.Fatalf("expected 24h marker set")
	}
	var reloaded2h models.Appointment
	if err := db.First(&reloaded2h, in2h.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded2h.Sent2hAt == nil {
		t.Fatalf("expected 2h marker set")
	}
}

func TestReminderSweepIsIdempotent(t *testing.T) {
	svc, sender, db := setupReminderServiceTest(t)
	seedReminderAppointment(t, db, time.Now().Add(24*time.Hour))

	if sent := svc.Sweep(context.Background()); sent != 1 {
		t.Fatalf("expected 1 reminder, got %d", sent)
	}
	if sent := svc.Sweep(context.Background()); sent != 0 {
		t.Fatalf("expected no repeat reminder, got %d", sent)
	}
	if len(sender.templates) != 1 {
		t.Fatalf("expected a single send, got %d", len(sender.templates))
	}
}

func TestReminderSweepRetriesFailedSend(t *testing.T) {
	svc, sender, db := setupReminderServiceTest(t)
	appointment := seedReminderAppointment(t, db, time.Now().Add(24*time.Hour))

	sender.fail = true
	if sent := svc.Sweep(context.Background()); sent != 0 {
		t.Fatalf("expected no send while gateway is down, got %d", sent)
	}
	var reloaded models.Appointment
	if err := db.First(&reloaded, appointment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Sent24hAt != nil {
		t.Fatalf("failed send must not set the marker")
	}

	sender.fail = false
	if sent := svc.Sweep(context.Background()); sent != 1 {
		t.Fatalf("expected retry to deliver, got %d", sent)
	}
}

func TestReminderSweepSkipsOptedOutAndCancelled(t *testing.T) {
	svc, sender, db := setupReminderServiceTest(t)
	optedOut := seedReminderAppointment(t, db, time.Now().Add(24*time.Hour))
	if err := db.Model(&models.Appointment{}).Where("id = ?", optedOut.ID).Update("remind_24h", false).Error; err != nil {
		t.Fatalf("opt out failed: %v", err)
	}
	cancelled := seedReminderAppointment(t, db, time.Now().Add(24*time.Hour).Add(5*time.Minute))
	if err := db.Model(&models.Appointment{}).Where("id = ?", cancelled.ID).
		Update("status", constants.AppointmentStatusCancelled).Error; err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if sent := svc.Sweep(context.Background()); sent != 0 {
		t.Fatalf("expected no reminders, got %d", sent)
	}
	if len(sender.templates) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.templates))
	}
}
