package models

import "time"

// Notification is a history record of a wallet broadcast or an internal
// note posted by the appointment lifecycle (e.g. a client cancellation).
type Notification struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Title      string    `gorm:"type:varchar(160);not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Kind       string    `gorm:"type:varchar(24);index;not null" json:"kind"` // broadcast / cancellation
	GoogleSent int       `gorm:"not null;default:0" json:"google_sent"`
	AppleSent  int       `gorm:"not null;default:0" json:"apple_sent"`
	ErrorCount int       `gorm:"not null;default:0" json:"error_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
