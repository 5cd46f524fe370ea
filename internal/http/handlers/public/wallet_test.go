package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/models"
	"github.com/belleza-studio/belleza-api/internal/provider"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupWalletHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_wallet_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Card{}, &models.WalletDevice{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	walletPass := service.NewWalletPassService(
		repository.NewCardRepository(db),
		repository.NewWalletDeviceRepository(db),
		nil,
		nil,
	)
	h := New(&provider.Container{WalletPassService: walletPass})

	r := gin.New()
	wallet := r.Group("/wallet/v1")
	{
		wallet.POST("/devices/:deviceId/registrations/:passTypeId/:serial", h.RegisterAppleDevice)
		wallet.DELETE("/devices/:deviceId/registrations/:passTypeId/:serial", h.UnregisterAppleDevice)
		wallet.GET("/devices/:deviceId/registrations/:passTypeId", h.ListAppleSerials)
		wallet.GET("/passes/:passTypeId/:serial", h.GetApplePass)
		wallet.POST("/log", h.AppleLog)
	}
	r.POST("/api/v1/webhooks/wallet/google", h.GoogleWalletCallback)
	return r, db
}

func seedWalletHandlerCard(t *testing.T, db *gorm.DB) *models.Card {
	t.Helper()
	card := &models.Card{
		ID:        "card-1",
		Name:      "Ana",
		Phone:     "525512345678",
		Stamps:    5,
		MaxStamps: 8,
		Status:    constants.CardStatusActive,
		AuthToken: "secret-token",
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("seed card failed: %v", err)
	}
	return card
}

func TestRegisterAppleDevice(t *testing.T) {
	r, db := setupWalletHandlerTest(t)
	card := seedWalletHandlerCard(t, db)

	url := "/wallet/v1/devices/device-1/registrations/pass.mx.belleza.loyalty/" + card.ID
	body := `{"pushToken":"push-token-1"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Authorization", "ApplePass secret-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status want 201 got %d", w.Code)
	}

	// PassKit re-registers on every pass open; that must stay 200.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Authorization", "ApplePass secret-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Authorization", "ApplePass wrong-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 without header got %d", w.Code)
	}
}

func TestListAppleSerials(t *testing.T) {
	r, db := setupWalletHandlerTest(t)
	card := seedWalletHandlerCard(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet/v1/devices/device-1/registrations/pass.mx.belleza.loyalty", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status want 204 for unknown device got %d", w.Code)
	}

	if err := db.Create(&models.WalletDevice{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     "device-1",
		SerialNumber: card.ID,
	}).Error; err != nil {
		t.Fatalf("seed device failed: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/wallet/v1/devices/device-1/registrations/pass.mx.belleza.loyalty", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		SerialNumbers []string `json:"serialNumbers"`
		LastUpdated   string   `json:"lastUpdated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if len(resp.SerialNumbers) != 1 || resp.SerialNumbers[0] != card.ID {
		t.Fatalf("unexpected serials: %v", resp.SerialNumbers)
	}
	if resp.LastUpdated == "" {
		t.Fatalf("expected lastUpdated tag")
	}
}

func TestGetApplePass(t *testing.T) {
	r, db := setupWalletHandlerTest(t)
	card := seedWalletHandlerCard(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallet/v1/passes/pass.mx.belleza.loyalty/"+card.ID, nil)
	req.Header.Set("Authorization", "ApplePass secret-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["serialNumber"] != card.ID || resp["stamps"] != float64(5) {
		t.Fatalf("unexpected pass payload: %v", resp)
	}
}

func TestUnregisterAppleDevice(t *testing.T) {
	r, db := setupWalletHandlerTest(t)
	card := seedWalletHandlerCard(t, db)
	if err := db.Create(&models.WalletDevice{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     "device-1",
		SerialNumber: card.ID,
	}).Error; err != nil {
		t.Fatalf("seed device failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/wallet/v1/devices/device-1/registrations/pass.mx.belleza.loyalty/"+card.ID, nil)
	req.Header.Set("Authorization", "ApplePass secret-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	var count int64
	if err := db.Model(&models.WalletDevice{}).Where("serial_number = ?", card.ID).Count(&count).Error; err != nil {
		t.Fatalf("count devices failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected registration removed, got %d", count)
	}
}

func TestGoogleWalletCallback(t *testing.T) {
	r, db := setupWalletHandlerTest(t)
	card := seedWalletHandlerCard(t, db)
	objectID := "3388000000012345678." + card.ID

	post := func(body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/wallet/google", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(fmt.Sprintf(`{"eventType":"save","objectId":"%s"}`, objectID)); code != http.StatusOK {
		t.Fatalf("save status want 200 got %d", code)
	}
	var device models.WalletDevice
	if err := db.Where("platform = ?", constants.WalletPlatformGoogle).First(&device).Error; err != nil {
		t.Fatalf("load google registration failed: %v", err)
	}
	if device.SerialNumber != card.ID {
		t.Fatalf("serial want %s got %s", card.ID, device.SerialNumber)
	}

	if code := post(fmt.Sprintf(`{"eventType":"del","objectId":"%s"}`, objectID)); code != http.StatusOK {
		t.Fatalf("del status want 200 got %d", code)
	}
	var count int64
	if err := db.Model(&models.WalletDevice{}).Where("platform = ?", constants.WalletPlatformGoogle).Count(&count).Error; err != nil {
		t.Fatalf("count registrations failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected registration removed, got %d", count)
	}

	// Malformed callbacks only deserve an ack, never a retry loop.
	if code := post(`not json`); code != http.StatusOK {
		t.Fatalf("malformed status want 200 got %d", code)
	}
}

func TestAppleLogAlwaysAccepts(t *testing.T) {
	r, _ := setupWalletHandlerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wallet/v1/log", strings.NewReader(`{"logs":["pass render failed"]}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/wallet/v1/log", strings.NewReader(`not json`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 for malformed body got %d", w.Code)
	}
}
