package constants

// Card status
const (
	CardStatusActive   = "active"
	CardStatusInactive = "inactive"
)

// Card ledger event types
const (
	CardEventIssue  = "issue"
	CardEventStamp  = "stamp"
	CardEventRedeem = "redeem"
)

// Appointment status
const (
	AppointmentStatusScheduled    = "scheduled"
	AppointmentStatusConfirmed    = "confirmed"
	AppointmentStatusRescheduling = "rescheduling"
	AppointmentStatusCompleted    = "completed"
	AppointmentStatusCancelled    = "cancelled"
	AppointmentStatusNoShow       = "no_show"
)

// AppointmentStatuses lists every valid appointment status.
var AppointmentStatuses = []string{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusRescheduling,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// IsValidAppointmentStatus reports whether status belongs to the allowed set.
func IsValidAppointmentStatus(status string) bool {
	for _, s := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalAppointmentStatus reports whether status accepts no further transitions.
func IsTerminalAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Wallet platforms
const (
	WalletPlatformApple  = "apple"
	WalletPlatformGoogle = "google"
)

// Notification kinds
const (
	NotificationKindBroadcast = "broadcast"
	NotificationKindCancel    = "cancellation"
)

// Reminder stages
const (
	ReminderStage24h = "24h"
	ReminderStage2h  = "2h"
)

// Queue names
const (
	QueueDefault = "default"
)

// Async task types
const (
	TaskWalletPassRefresh = "wallet:pass_refresh"
	TaskBroadcastPush     = "notification:broadcast"
)
