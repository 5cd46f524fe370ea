package models

import "time"

// WalletDevice is a device registration for a wallet pass. Many devices may
// reference one card; the serial number equals the card id.
type WalletDevice struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Platform     string    `gorm:"type:varchar(12);not null;uniqueIndex:idx_wallet_device" json:"platform"` // apple / google
	DeviceID     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_wallet_device" json:"device_id"`
	SerialNumber string    `gorm:"type:varchar(36);index;not null;uniqueIndex:idx_wallet_device" json:"serial_number"` // card id
	PassTypeID   string    `gorm:"type:varchar(120)" json:"pass_type_id"`
	PushToken    string    `gorm:"type:varchar(200)" json:"-"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (WalletDevice) TableName() string {
	return "wallet_devices"
}
