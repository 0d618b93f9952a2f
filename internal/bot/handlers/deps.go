// Package handlers contains the Telegram command handlers, their
// registration and middleware.
package handlers

import (
	"context"
	"log/slog"

	"github.com/xecut/xecutbot/internal/config"
	"github.com/xecut/xecutbot/internal/relay"
)

// Relayer runs the relay workflow for one command.
type Relayer interface {
	Handle(ctx context.Context, ev relay.Event) (relay.Outcome, bool)
}

// Replier answers a message; used when a handler has to report a failure
// on its own.
type Replier interface {
	Reply(ctx context.Context, chatID int64, messageID int, text string, opts relay.SendOptions) error
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Relay   Relayer
	Replier Replier
}
