package worker

import (
	"context"
	"encoding/json"

	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/provider"
	"github.com/belleza-studio/belleza-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer processes the async tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWalletPassRefresh, c.handleWalletPassRefresh)
	mux.HandleFunc(queue.TaskBroadcastPush, c.handleBroadcastPush)
}

func (c *Consumer) handleWalletPassRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WalletPassRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_wallet_pass_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.CardID == "" {
		logger.Debugw("worker_wallet_pass_refresh_skip_empty_card")
		return nil
	}
	if c.WalletPassService == nil {
		logger.Debugw("worker_wallet_pass_refresh_skip_service_nil", "card_id", payload.CardID)
		return nil
	}
	if err := c.WalletPassService.RefreshPass(ctx, payload.CardID); err != nil {
		logger.Warnw("worker_wallet_pass_refresh_failed", "card_id", payload.CardID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleBroadcastPush(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.BroadcastPushPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_broadcast_push_unmarshal_failed", "error", err)
		return err
	}
	if payload.NotificationID == 0 {
		logger.Debugw("worker_broadcast_push_skip_empty_id")
		return nil
	}
	if c.BroadcastService == nil {
		logger.Debugw("worker_broadcast_push_skip_service_nil", "notification_id", payload.NotificationID)
		return nil
	}
	if err := c.BroadcastService.Deliver(ctx, payload.NotificationID); err != nil {
		logger.Warnw("worker_broadcast_push_failed", "notification_id", payload.NotificationID, "error", err)
		return err
	}
	return nil
}
