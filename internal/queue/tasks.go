package queue

import (
	"encoding/json"

	"github.com/belleza-studio/belleza-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWalletPassRefresh refreshes a loyalty pass on both wallet platforms.
	TaskWalletPassRefresh = constants.TaskWalletPassRefresh
	// TaskBroadcastPush fans a broadcast message out to all active cards.
	TaskBroadcastPush = constants.TaskBroadcastPush
)

// WalletPassRefreshPayload identifies the card whose pass changed.
type WalletPassRefreshPayload struct {
	CardID string `json:"card_id"`
}

// BroadcastPushPayload carries the broadcast to deliver.
type BroadcastPushPayload struct {
	NotificationID uint `json:"notification_id"`
}

// NewWalletPassRefreshTask builds a pass refresh task.
func NewWalletPassRefreshTask(payload WalletPassRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWalletPassRefresh, body), nil
}

// NewBroadcastPushTask builds a broadcast fan-out task.
func NewBroadcastPushTask(payload BroadcastPushPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBroadcastPush, body), nil
}
