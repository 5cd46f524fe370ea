package worker

import (
	"context"
	"errors"
	"time"

	"github.com/belleza-studio/belleza-api/internal/logger"
	"github.com/belleza-studio/belleza-api/internal/service"
)

// ReminderLoop runs the reminder sweep on a fixed tick. It backs the
// worker service and also runs standalone when no queue is configured.
type ReminderLoop struct {
	reminders *service.ReminderService
}

// NewReminderLoop creates the loop.
func NewReminderLoop(reminders *service.ReminderService) *ReminderLoop {
	return &ReminderLoop{reminders: reminders}
}

// Name returns the service name.
func (l *ReminderLoop) Name() string {
	return "reminders"
}

// Start sweeps until the context is cancelled.
func (l *ReminderLoop) Start(ctx context.Context) error {
	if l == nil || l.reminders == nil {
		return errors.New("reminder loop not initialized")
	}
	l.run(ctx)
	return nil
}

// Stop is a no-op; Start exits with its context.
func (l *ReminderLoop) Stop(ctx context.Context) error {
	return nil
}

func (l *ReminderLoop) run(ctx context.Context) {
	runOnce := func() {
		if sent := l.reminders.Sweep(ctx); sent > 0 {
			logger.Infow("worker_reminder_sweep", "sent", sent)
		}
	}
	runOnce()

	ticker := time.NewTicker(l.reminders.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
