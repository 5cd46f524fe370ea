package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) *CatalogService {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Service{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewCatalogService(repository.NewServiceRepository(db))
}

func TestCatalogCreateAndValidation(t *testing.T) {
	svc := setupCatalogServiceTest(t)

	if _, err := svc.Create(ServiceInput{Name: "", DurationMinutes: 30}); !errors.Is(err, ErrServiceInvalid) {
		t.Fatalf("expected ErrServiceInvalid for empty name, got %v", err)
	}
	if _, err := svc.Create(ServiceInput{Name: "Manicure", DurationMinutes: 0}); !errors.Is(err, ErrServiceInvalid) {
		t.Fatalf("expected ErrServiceInvalid for zero duration, got %v", err)
	}
	if _, err := svc.Create(ServiceInput{
		Name:            "Manicure",
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(-1)),
		DurationMinutes: 40,
	}); !errors.Is(err, ErrServiceInvalid) {
		t.Fatalf("expected ErrServiceInvalid for negative price, got %v", err)
	}

	created, err := svc.Create(ServiceInput{
		Name:            "  Manicure  ",
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(280)),
		DurationMinutes: 40,
		Category:        "unas",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "Manicure" || !created.Active {
		t.Fatalf("unexpected service: %+v", created)
	}
}

func TestCatalogUpdate(t *testing.T) {
	svc := setupCatalogServiceTest(t)
	created, err := svc.Create(ServiceInput{
		Name:            "Manicure",
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(280)),
		DurationMinutes: 40,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inactive := false
	updated, err := svc.Update(created.ID, ServiceInput{
		Price:  models.NewMoneyFromDecimal(decimal.NewFromInt(320)),
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.Price.Decimal.Equal(decimal.NewFromInt(320)) || updated.Active {
		t.Fatalf("unexpected service: %+v", updated)
	}
	// Zero-value fields leave the entry untouched.
	if updated.Name != "Manicure" || updated.DurationMinutes != 40 {
		t.Fatalf("expected unchanged fields, got %+v", updated)
	}

	if _, err := svc.Update(999, ServiceInput{Name: "Nada"}); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestCatalogDelete(t *testing.T) {
	svc := setupCatalogServiceTest(t)
	created, err := svc.Create(ServiceInput{
		Name:            "Peinado",
		Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(450)),
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound for repeat delete, got %v", err)
	}
}
