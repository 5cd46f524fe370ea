package public

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/calendar"
	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/provider"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"
	"github.com/belleza-studio/belleza-api/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *stubSender) SendTemplate(_ context.Context, _ whatsapp.TemplateMessage) error {
	return nil
}

func (s *stubSender) SendText(_ context.Context, _, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func setupWebhookHandlerTest(t *testing.T) (*gin.Engine, *stubSender, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_webhook_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Appointment{}, &models.Notification{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	business := config.BusinessConfig{Timezone: "UTC", PhoneCountryCode: "52"}
	repo := repository.NewAppointmentRepository(db)
	appointments := service.NewAppointmentService(repo, nil, repository.NewServiceRepository(db), calendar.NewMirror(nil, nil), repository.NewNotificationRepository(db), business)
	sender := &stubSender{}
	inbound := service.NewInboundService(appointments, repo, sender, business)
	h := New(&provider.Container{InboundService: inbound})

	r := gin.New()
	webhooks := r.Group("/api/v1/webhooks")
	{
		webhooks.POST("/whatsapp", h.WhatsAppWebhook)
		webhooks.POST("/evolution", h.EvolutionWebhook)
	}
	return r, sender, db
}

func seedWebhookAppointment(t *testing.T, db *gorm.DB) *models.Appointment {
	t.Helper()
	startAt := time.Now().Add(26 * time.Hour)
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
	}
	if err := db.Create(appointment).Error; err != nil {
		t.Fatalf("seed appointment failed: %v", err)
	}
	return appointment
}

func TestWhatsAppWebhookConfirms(t *testing.T) {
	r, sender, db := setupWebhookHandlerTest(t)
	appointment := seedWebhookAppointment(t, db)

	form := url.Values{}
	form.Set("From", "whatsapp:+5215512345678")
	form.Set("Body", "Confirmo")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	var got models.Appointment
	if err := db.First(&got, appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment failed: %v", err)
	}
	if got.Status != constants.AppointmentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
	if len(sender.texts) != 1 {
		t.Fatalf("expected one reply, got %v", sender.texts)
	}
}

func TestWhatsAppWebhookIgnoresUnrelatedText(t *testing.T) {
	r, sender, db := setupWebhookHandlerTest(t)
	appointment := seedWebhookAppointment(t, db)

	form := url.Values{}
	form.Set("From", "whatsapp:+5215512345678")
	form.Set("Body", "hola, que horarios tienen?")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	var got models.Appointment
	if err := db.First(&got, appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment failed: %v", err)
	}
	if got.Status != constants.AppointmentStatusScheduled {
		t.Fatalf("expected status untouched, got %s", got.Status)
	}
	if len(sender.texts) != 0 {
		t.Fatalf("expected no reply, got %v", sender.texts)
	}
}

func TestWhatsAppWebhookNoMatchStaysOK(t *testing.T) {
	r, _, _ := setupWebhookHandlerTest(t)

	form := url.Values{}
	form.Set("From", "whatsapp:+5215599999999")
	form.Set("Body", "cancelar")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
}

func TestEvolutionWebhookCancels(t *testing.T) {
	r, _, db := setupWebhookHandlerTest(t)
	appointment := seedWebhookAppointment(t, db)

	body := `{"data":{"key":{"remoteJid":"5215512345678@s.whatsapp.net"},"message":{"conversation":"quiero cancelar mi cita"}}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/evolution", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	var got models.Appointment
	if err := db.First(&got, appointment.ID).Error; err != nil {
		t.Fatalf("reload appointment failed: %v", err)
	}
	if got.Status != constants.AppointmentStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
	if got.CancelledAt == nil {
		t.Fatalf("expected cancellation timestamp")
	}

	var notifications int64
	if err := db.Model(&models.Notification{}).Where("kind = ?", constants.NotificationKindCancel).Count(&notifications).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if notifications != 1 {
		t.Fatalf("expected one cancellation record, got %d", notifications)
	}
}

func TestEvolutionWebhookMalformedBodyStaysOK(t *testing.T) {
	r, _, _ := setupWebhookHandlerTest(t)

	for _, body := range []string{"not json", `{"data":{}}`, ""} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/evolution", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 for %q got %d", body, w.Code)
		}
	}
}
