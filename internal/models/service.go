package models

import "time"

// Service is a bookable catalog entry (cut, color, manicure, ...).
type Service struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(120);not null" json:"name"`
	Price           Money     `gorm:"type:decimal(20,2);not null" json:"price"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Category        string    `gorm:"type:varchar(60);index" json:"category"`
	Active          bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Service) TableName() string {
	return "services"
}
