package models

import (
	"time"
)

// Card is a customer's loyalty record. Stamps count toward a free reward;
// a completed card is redeemed, which resets stamps and bumps Cycles.
type Card struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`                            // opaque uuid
	Name        string     `gorm:"type:varchar(120);not null" json:"name"`                           // customer name
	Phone       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`               // normalized, country-code prefixed
	Stamps      int        `gorm:"not null;default:0" json:"stamps"`                                 // 0..MaxStamps
	MaxStamps   int        `gorm:"not null;default:8" json:"max_stamps"`                             // stamps needed for a reward
	Cycles      int        `gorm:"not null;default:0" json:"cycles"`                                 // completed redemptions
	Status      string     `gorm:"type:varchar(16);index;not null;default:'active'" json:"status"`  // active / inactive
	AuthToken   string     `gorm:"type:varchar(36);not null" json:"-"`                               // Apple PassKit auth token
	LastVisitAt *time.Time `gorm:"index" json:"last_visit_at"`                                       // last stamped visit
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (Card) TableName() string {
	return "cards"
}
