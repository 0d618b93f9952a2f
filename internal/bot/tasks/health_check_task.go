package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/xecut/xecutbot/internal/relay"
)

// newHealthCheckTask checks that the token still works and that the bot can
// see the resident group and the destination channel. Losing access to
// either silently breaks every relay, so it is surfaced in the logs early.
func newHealthCheckTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "health_check")

	return func(ctx context.Context) error {
		startTime := time.Now()
		cfg := deps.Config.Relay

		err := deps.Checker.CheckChats(ctx,
			cfg.SourceChatID,
			cfg.ResidentGroupID,
			relay.ChannelChatID(cfg.DestinationChannel),
		)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Health check failed", "error", err, "duration", duration)
			return fmt.Errorf("health check failed: %w", err)
		}

		log.InfoContext(ctx, "Health check succeeded", "duration", duration)
		return nil
	}
}
