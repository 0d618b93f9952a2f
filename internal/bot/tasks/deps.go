// Package tasks implements the bot's scheduled tasks and their registration.
package tasks

import (
	"context"
	"log/slog"

	"github.com/xecut/xecutbot/internal/config"
)

// HealthChecker checks that the bot can reach the given chats.
type HealthChecker interface {
	CheckChats(ctx context.Context, chatIDs ...any) error
}

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Checker HealthChecker
}
