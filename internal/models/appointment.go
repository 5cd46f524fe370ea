package models

import "time"

// Appointment is a booked service slot. The whole salon is modeled as one
// shared slot pool: at most one non-cancelled appointment may occupy a
// given [StartAt, EndAt) interval.
type Appointment struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	ClientName       string     `gorm:"type:varchar(120);not null" json:"client_name"`
	ClientPhone      string     `gorm:"type:varchar(20);index;not null" json:"client_phone"` // normalized
	CardID           *string    `gorm:"type:varchar(36);index" json:"card_id,omitempty"`     // owning loyalty card
	ServiceID        uint       `gorm:"index;not null" json:"service_id"`
	ServiceName      string     `gorm:"type:varchar(120);not null" json:"service_name"` // snapshot at booking time
	Date             string     `gorm:"type:varchar(10);index;not null" json:"date"`    // YYYY-MM-DD, business timezone
	Time             string     `gorm:"type:varchar(5);not null" json:"time"`           // HH:MM, business timezone
	StartAt          time.Time  `gorm:"index;not null" json:"start_at"`
	EndAt            time.Time  `gorm:"index;not null" json:"end_at"`
	DurationMinutes  int        `gorm:"not null" json:"duration_minutes"`
	Status           string     `gorm:"type:varchar(16);index;not null;default:'scheduled'" json:"status"`
	CalendarEventID  string     `gorm:"type:varchar(128)" json:"calendar_event_id,omitempty"`  // first calendar mirror
	CalendarEventID2 string     `gorm:"type:varchar(128)" json:"calendar_event_id2,omitempty"` // second calendar mirror
	Remind24h        bool       `gorm:"column:remind_24h;not null;default:true" json:"remind_24h"`
	Remind2h         bool       `gorm:"column:remind_2h;not null;default:true" json:"remind_2h"`
	Sent24hAt        *time.Time `gorm:"column:sent_24h_at" json:"sent_24h_at,omitempty"`
	Sent2hAt         *time.Time `gorm:"column:sent_2h_at" json:"sent_2h_at,omitempty"`
	ProposedDate     string     `gorm:"type:varchar(160)" json:"proposed_date,omitempty"` // free-form reschedule wish
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelReason     string     `gorm:"type:varchar(200)" json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (Appointment) TableName() string {
	return "appointments"
}

// Overlaps reports whether the appointment interval intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && a.EndAt.After(start)
}
