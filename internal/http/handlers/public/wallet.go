package public

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/constants"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

// The wallet endpoints speak the Apple PassKit web service wire format,
// so they answer with bare status codes instead of the API envelope.

const applePassAuthPrefix = "ApplePass "

func applePassToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, applePassAuthPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, applePassAuthPrefix))
}

type registerDeviceRequest struct {
	PushToken string `json:"pushToken"`
}

// RegisterAppleDevice handles the PassKit device registration call.
func (h *Handler) RegisterAppleDevice(c *gin.Context) {
	serial := c.Param("serial")
	if _, err := h.WalletPassService.Authorize(serial, applePassToken(c)); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req registerDeviceRequest
	_ = c.ShouldBindJSON(&req)

	created, err := h.WalletPassService.RegisterDevice(service.RegisterDeviceInput{
		Platform:     constants.WalletPlatformApple,
		DeviceID:     c.Param("deviceId"),
		SerialNumber: serial,
		PassTypeID:   c.Param("passTypeId"),
		PushToken:    req.PushToken,
	})
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if created {
		c.Status(http.StatusCreated)
		return
	}
	c.Status(http.StatusOK)
}

// UnregisterAppleDevice handles the PassKit device unregistration call.
func (h *Handler) UnregisterAppleDevice(c *gin.Context) {
	serial := c.Param("serial")
	if _, err := h.WalletPassService.Authorize(serial, applePassToken(c)); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	if err := h.WalletPassService.UnregisterDevice(constants.WalletPlatformApple, c.Param("deviceId"), serial); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

// ListAppleSerials returns the serial numbers a device should re-fetch.
func (h *Handler) ListAppleSerials(c *gin.Context) {
	var updatedSince *time.Time
	if tag := c.Query("passesUpdatedSince"); tag != "" {
		if unix, err := strconv.ParseInt(tag, 10, 64); err == nil {
			at := time.Unix(unix, 0)
			updatedSince = &at
		}
	}

	serials, err := h.WalletPassService.ListUpdatedSerials(constants.WalletPlatformApple, c.Param("deviceId"), updatedSince)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(serials) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serialNumbers": serials,
		"lastUpdated":   strconv.FormatInt(time.Now().Unix(), 10),
	})
}

// GetApplePass returns the current pass content for a card.
func (h *Handler) GetApplePass(c *gin.Context) {
	serial := c.Param("serial")
	card, err := h.WalletPassService.Authorize(serial, applePassToken(c))
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serialNumber": card.ID,
		"holder":       card.Name,
		"stamps":       card.Stamps,
		"maxStamps":    card.MaxStamps,
		"cycles":       card.Cycles,
		"updatedAt":    card.UpdatedAt,
	})
}

// AppleLog receives PassKit device log posts.
func (h *Handler) AppleLog(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload struct {
			Logs []string `json:"logs"`
		}
		if json.Unmarshal(body, &payload) == nil && len(payload.Logs) > 0 {
			requestLog(c).Infow("passkit_device_log", "logs", payload.Logs)
		}
	}
	c.Status(http.StatusOK)
}

type googleCallbackRequest struct {
	EventType string `json:"eventType"` // save / del
	ObjectID  string `json:"objectId"`  // issuer.serial
}

// GoogleWalletCallback tracks saves and deletions of the Google pass.
func (h *Handler) GoogleWalletCallback(c *gin.Context) {
	var req googleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ObjectID == "" {
		c.Status(http.StatusOK)
		return
	}
	serial := req.ObjectID
	if idx := strings.LastIndex(serial, "."); idx >= 0 {
		serial = serial[idx+1:]
	}

	switch strings.ToLower(req.EventType) {
	case "del":
		if err := h.WalletPassService.UnregisterDevice(constants.WalletPlatformGoogle, req.ObjectID, serial); err != nil {
			requestLog(c).Warnw("google_wallet_unregister_failed", "object_id", req.ObjectID, "error", err)
		}
	default:
		_, err := h.WalletPassService.RegisterDevice(service.RegisterDeviceInput{
			Platform:     constants.WalletPlatformGoogle,
			DeviceID:     req.ObjectID,
			SerialNumber: serial,
		})
		if err != nil {
			requestLog(c).Warnw("google_wallet_register_failed", "object_id", req.ObjectID, "error", err)
		}
	}
	c.Status(http.StatusOK)
}
