package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestDashboardOverview(t *testing.T) {
	dsn := fmt.Sprintf("file:dashboard_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Card{}, &models.CardEvent{}, &models.Appointment{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	now := time.Now().UTC()
	laterToday := now.Add(time.Minute)
	appointments := []models.Appointment{
		{ClientName: "Ana", ClientPhone: "525511111111", ServiceID: 1, ServiceName: "Corte",
			Date: laterToday.Format("2006-01-02"), Time: laterToday.Format("15:04"),
			StartAt: laterToday, EndAt: laterToday.Add(time.Hour), DurationMinutes: 60,
			Status: constants.AppointmentStatusScheduled},
		{ClientName: "Luis", ClientPhone: "525522222222", ServiceID: 1, ServiceName: "Corte",
			Date: laterToday.Format("2006-01-02"), Time: laterToday.Format("15:04"),
			StartAt: laterToday.Add(2 * time.Hour), EndAt: laterToday.Add(3 * time.Hour), DurationMinutes: 60,
			Status: constants.AppointmentStatusCancelled},
		{ClientName: "Eva", ClientPhone: "525533333333", ServiceID: 1, ServiceName: "Tinte",
			Date: now.Add(72 * time.Hour).Format("2006-01-02"), Time: "10:00",
			StartAt: now.Add(72 * time.Hour), EndAt: now.Add(73 * time.Hour), DurationMinutes: 60,
			Status: constants.AppointmentStatusRescheduling},
	}
	for i := range appointments {
		if err := db.Create(&appointments[i]).Error; err != nil {
			t.Fatalf("seed appointment failed: %v", err)
		}
	}
	cards := []models.Card{
		{ID: "card-1", Name: "Ana", Phone: "525511111111", MaxStamps: 8, Status: constants.CardStatusActive, AuthToken: "t1"},
		{ID: "card-2", Name: "Luis", Phone: "525522222222", MaxStamps: 8, Status: constants.CardStatusInactive, AuthToken: "t2"},
	}
	for i := range cards {
		if err := db.Create(&cards[i]).Error; err != nil {
			t.Fatalf("seed card failed: %v", err)
		}
	}
	events := []models.CardEvent{
		{CardID: "card-1", Type: constants.CardEventStamp, CreatedAt: now},
		{CardID: "card-1", Type: constants.CardEventStamp, CreatedAt: now.Add(-48 * time.Hour)},
		{CardID: "card-1", Type: constants.CardEventRedeem, CreatedAt: now.Add(-24 * time.Hour)},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			t.Fatalf("seed event failed: %v", err)
		}
	}

	overview, err := NewDashboardService(time.UTC).Overview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.TodayAppointments != 1 {
		t.Fatalf("expected 1 appointment today, got %d", overview.TodayAppointments)
	}
	if overview.UpcomingAppointments != 1 {
		t.Fatalf("expected 1 upcoming appointment, got %d", overview.UpcomingAppointments)
	}
	if overview.PendingReschedules != 1 {
		t.Fatalf("expected 1 pending reschedule, got %d", overview.PendingReschedules)
	}
	if overview.ActiveCards != 1 {
		t.Fatalf("expected 1 active card, got %d", overview.ActiveCards)
	}
	if overview.StampsToday != 1 {
		t.Fatalf("expected 1 stamp today, got %d", overview.StampsToday)
	}
	if overview.RedeemedCycles != 1 {
		t.Fatalf("expected 1 redeemed cycle, got %d", overview.RedeemedCycles)
	}
}
