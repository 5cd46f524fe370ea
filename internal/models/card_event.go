package models

import "time"

// CardEvent is an append-only ledger entry for a card (issue/stamp/redeem).
// The latest stamp event drives the one-stamp-per-rolling-window throttle.
type CardEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CardID    string    `gorm:"type:varchar(36);index;not null" json:"card_id"`
	Type      string    `gorm:"type:varchar(16);index;not null" json:"type"` // issue / stamp / redeem
	Meta      string    `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (CardEvent) TableName() string {
	return "card_events"
}
