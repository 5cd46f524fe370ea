package main

import (
	"time"

	"github.com/belleza-studio/belleza-api/internal/config"
	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	services := []models.Service{
		{Name: "Corte de cabello", Price: money("350"), DurationMinutes: 45, Category: "cabello"},
		{Name: "Tinte completo", Price: money("1200"), DurationMinutes: 120, Category: "cabello"},
		{Name: "Peinado", Price: money("450"), DurationMinutes: 60, Category: "cabello"},
		{Name: "Manicure", Price: money("280"), DurationMinutes: 40, Category: "unas"},
		{Name: "Pedicure", Price: money("320"), DurationMinutes: 50, Category: "unas"},
		{Name: "Limpieza facial", Price: money("550"), DurationMinutes: 60, Category: "facial"},
	}
	for i := range services {
		services[i].Active = true
		if err := models.DB.Where("name = ?", services[i].Name).
			FirstOrCreate(&services[i]).Error; err != nil {
			stdLog.Fatalf("failed to seed service %q: %v", services[i].Name, err)
		}
	}
	stdLog.Printf("seeded %d catalog services", len(services))

	demo := models.Card{
		ID:         uuid.NewString(),
		AuthToken:  uuid.NewString(),
		Name:       "Cliente Demo",
		Phone:      "525512345678",
		Stamps:     3,
		MaxStamps:  cfg.Business.DefaultMaxStamps,
		LastVisitAt: func() *time.Time {
			t := time.Now().Add(-48 * time.Hour)
			return &t
		}(),
	}
	if err := models.DB.Where("phone = ?", demo.Phone).FirstOrCreate(&demo).Error; err != nil {
		stdLog.Fatalf("failed to seed demo card: %v", err)
	}
	stdLog.Printf("seeded demo card %s", demo.ID)
}

func money(amount string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(amount))
}
