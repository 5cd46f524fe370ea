package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupWalletPassServiceTest(t *testing.T) (*WalletPassService, *fakeGooglePass, *fakeApplePush, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_pass_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Card{}, &models.WalletDevice{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	google := &fakeGooglePass{notSaved: map[string]bool{}}
	apple := &fakeApplePush{}
	svc := NewWalletPassService(
		repository.NewCardRepository(db),
		repository.NewWalletDeviceRepository(db),
		google,
		apple,
	)
	return svc, google, apple, db
}

func seedWalletCard(t *testing.T, db *gorm.DB, id, token string) *models.Card {
	t.Helper()
	card := &models.Card{
		ID:        id,
		Name:      "Ana",
		Phone:     "5255" + id,
		Stamps:    4,
		MaxStamps: 8,
		Status:    constants.CardStatusActive,
		AuthToken: token,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}
	return card
}

func TestWalletAuthorize(t *testing.T) {
	svc, _, _, db := setupWalletPassServiceTest(t)
	card := seedWalletCard(t, db, "card-1", "secret-token")

	got, err := svc.Authorize(card.ID, "secret-token")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if got.ID != card.ID {
		t.Fatalf("unexpected card: %+v", got)
	}

	if _, err := svc.Authorize(card.ID, "wrong-token"); !errors.Is(err, ErrWalletAuthInvalid) {
		t.Fatalf("expected ErrWalletAuthInvalid, got %v", err)
	}
	if _, err := svc.Authorize(card.ID, ""); !errors.Is(err, ErrWalletAuthInvalid) {
		t.Fatalf("expected ErrWalletAuthInvalid for empty token, got %v", err)
	}
	if _, err := svc.Authorize("missing-card", "secret-token"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestWalletRegisterDevice(t *testing.T) {
	svc, _, _, db := setupWalletPassServiceTest(t)
	card := seedWalletCard(t, db, "card-1", "secret-token")

	created, err := svc.RegisterDevice(RegisterDeviceInput{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     "device-1",
		SerialNumber: card.ID,
		PassTypeID:   "pass.mx.belleza.loyalty",
		PushToken:    "push-token-1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !created {
		t.Fatalf("expected new registration")
	}

	// Same device again is a no-op, but a rotated push token sticks.
	created, err = svc.RegisterDevice(RegisterDeviceInput{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     "device-1",
		SerialNumber: card.ID,
		PushToken:    "push-token-2",
	})
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if created {
		t.Fatalf("expected idempotent re-registration")
	}
	var device models.WalletDevice
	if err := db.Where("device_id = ?", "device-1").First(&device).Error; err != nil {
		t.Fatalf("load device failed: %v", err)
	}
	if device.PushToken != "push-token-2" {
		t.Fatalf("expected rotated push token, got %s", device.PushToken)
	}

	if _, err := svc.RegisterDevice(RegisterDeviceInput{
		Platform:     "windows",
		DeviceID:     "device-2",
		SerialNumber: card.ID,
	}); !errors.Is(err, ErrWalletPlatform) {
		t.Fatalf("expected ErrWalletPlatform, got %v", err)
	}
}

func TestWalletListUpdatedSerials(t *testing.T) {
	svc, _, _, db := setupWalletPassServiceTest(t)
	first := seedWalletCard(t, db, "card-1", "token-1")
	second := seedWalletCard(t, db, "card-2", "token-2")

	for _, card := range []*models.Card{first, second} {
		if _, err := svc.RegisterDevice(RegisterDeviceInput{
			Platform:     constants.WalletPlatformApple,
			DeviceID:     "device-1",
			SerialNumber: card.ID,
		}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	serials, err := svc.ListUpdatedSerials(constants.WalletPlatformApple, "device-1", nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(serials) != 2 {
		t.Fatalf("expected both serials, got %v", serials)
	}

	if err := svc.UnregisterDevice(constants.WalletPlatformApple, "device-1", first.ID); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	serials, err = svc.ListUpdatedSerials(constants.WalletPlatformApple, "device-1", nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(serials) != 1 || serials[0] != second.ID {
		t.Fatalf("expected only the remaining serial, got %v", serials)
	}
}

func TestWalletRefreshPass(t *testing.T) {
	svc, google, apple, db := setupWalletPassServiceTest(t)
	card := seedWalletCard(t, db, "card-1", "secret-token")
	if _, err := svc.RegisterDevice(RegisterDeviceInput{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     "device-1",
		SerialNumber: card.ID,
		PushToken:    "push-token-1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.RefreshPass(context.Background(), card.ID); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(google.upserts) != 1 {
		t.Fatalf("expected google upsert, got %v", google.upserts)
	}
	state := google.upserts[0]
	if state.SerialNumber != card.ID || state.Stamps != 4 || state.MaxStamps != 8 {
		t.Fatalf("unexpected card state: %+v", state)
	}
	if len(apple.updates) != 1 || apple.updates[0] != "push-token-1" {
		t.Fatalf("expected apple push, got %v", apple.updates)
	}

	if err := svc.RefreshPass(context.Background(), "missing"); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}
