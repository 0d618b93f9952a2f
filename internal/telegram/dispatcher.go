// Package telegram wires the go-telegram/bot client: bot construction, the
// relay command dispatcher and the Client adapter the relay drives.
package telegram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"github.com/xecut/xecutbot/internal/bot/handlers"
	"github.com/xecut/xecutbot/internal/config"
)

// ErrNoCommands is returned when the dispatcher is given nothing to route.
var ErrNoCommands = errors.New("no commands to register")

// NewTelegramBot creates the go-telegram/bot instance for cfg. Polling errors
// go to logger; ServerURL, when set, replaces the public Bot API endpoint.
// Extra options are applied last.
func NewTelegramBot(cfg config.TelegramConfig, logger *slog.Logger, extra ...bot.Option) (*bot.Bot, error) {
	if cfg.Token == "" {
		return nil, config.ErrMissingToken
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	opts := []bot.Option{
		bot.WithErrorsHandler(func(err error) {
			log.Error("Telegram polling error", "error", err)
		}),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.ServerURL))
	}
	opts = append(opts, extra...)

	b, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot created", "token_prefix", tokenPrefix(cfg.Token), "custom_server", cfg.ServerURL != "")
	return b, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// chain wraps h so that mw[0] runs first.
func chain(h bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RegisterCommands routes each slash command to its handler chain. The relay
// bot always has at least one command, so an empty registry is a wiring
// error.
func RegisterCommands(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if len(registered) == 0 {
		return ErrNoCommands
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "dispatcher")

	for command, h := range registered {
		if h.Handler == nil {
			return fmt.Errorf("command %s has no handler", command)
		}
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, chain(h.Handler, h.Middleware))
		log.Info("Routing command", "command", command, "description", h.Description)
	}
	return nil
}
