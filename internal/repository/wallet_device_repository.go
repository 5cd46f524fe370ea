package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/belleza-studio/belleza-api/internal/models"

	"gorm.io/gorm"
)

// WalletDeviceRepository is the wallet registration data access interface.
type WalletDeviceRepository interface {
	Register(device *models.WalletDevice) (created bool, err error)
	Unregister(platform, deviceID, serialNumber string) error
	ListBySerial(platform, serialNumber string) ([]models.WalletDevice, error)
	ListSerialsByDevice(platform, deviceID string, updatedSince *time.Time) ([]string, error)
	DeleteBySerial(serialNumber string) error
}

// GormWalletDeviceRepository is the GORM implementation.
type GormWalletDeviceRepository struct {
	db *gorm.DB
}

// NewWalletDeviceRepository creates a wallet device repository.
func NewWalletDeviceRepository(db *gorm.DB) *GormWalletDeviceRepository {
	return &GormWalletDeviceRepository{db: db}
}

// Register stores a device registration. Returns created=false when the
// (platform, device, serial) triple is already registered.
func (r *GormWalletDeviceRepository) Register(device *models.WalletDevice) (bool, error) {
	if device == nil {
		return false, errors.New("invalid wallet device")
	}
	var existing models.WalletDevice
	err := r.db.Where("platform = ? AND device_id = ? AND serial_number = ?",
		device.Platform, device.DeviceID, device.SerialNumber).
		First(&existing).Error
	if err == nil {
		if device.PushToken != "" && device.PushToken != existing.PushToken {
			existing.PushToken = device.PushToken
			if err := r.db.Save(&existing).Error; err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.Create(device).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Unregister removes a device registration. Idempotent.
func (r *GormWalletDeviceRepository) Unregister(platform, deviceID, serialNumber string) error {
	return r.db.Where("platform = ? AND device_id = ? AND serial_number = ?",
		platform, deviceID, serialNumber).
		Delete(&models.WalletDevice{}).Error
}

// ListBySerial returns every device registered for a pass serial.
func (r *GormWalletDeviceRepository) ListBySerial(platform, serialNumber string) ([]models.WalletDevice, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return []models.WalletDevice{}, nil
	}
	var devices []models.WalletDevice
	err := r.db.Where("platform = ? AND serial_number = ?", platform, serialNumber).
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// ListSerialsByDevice returns the serial numbers a device is registered for,
// optionally restricted to passes updated since the given time.
func (r *GormWalletDeviceRepository) ListSerialsByDevice(platform, deviceID string, updatedSince *time.Time) ([]string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return []string{}, nil
	}
	query := r.db.Model(&models.WalletDevice{}).
		Joins("JOIN cards ON cards.id = wallet_devices.serial_number").
		Where("wallet_devices.platform = ? AND wallet_devices.device_id = ?", platform, deviceID)
	if updatedSince != nil {
		query = query.Where("cards.updated_at > ?", *updatedSince)
	}
	var serials []string
	if err := query.Pluck("wallet_devices.serial_number", &serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// DeleteBySerial removes every registration of a pass serial (card purge).
func (r *GormWalletDeviceRepository) DeleteBySerial(serialNumber string) error {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil
	}
	return r.db.Where("serial_number = ?", serialNumber).Delete(&models.WalletDevice{}).Error
}
