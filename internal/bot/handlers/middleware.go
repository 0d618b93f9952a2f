package handlers

import (
	"context"
	"fmt"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xecut/xecutbot/internal/relay"
)

// Recover stops a panicking handler from taking the process down. The panic
// is logged and the invoking message gets the generic failure reply.
func Recover(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				log := deps.Logger.With("middleware", "Recover", "update_id", update.ID)
				log.ErrorContext(ctx, "Handler panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))

				if update.Message == nil || deps.Replier == nil {
					return
				}
				err := deps.Replier.Reply(ctx, update.Message.Chat.ID, update.Message.ID, deps.Config.Messages.Failure, relay.SendOptions{})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send failure reply", "error", err, "chat_id", update.Message.Chat.ID)
				}
			}()

			next(ctx, bot, update)
		}
	}
}

// SourceChatOnly drops updates that did not come from the configured source
// chat before they reach the handler.
func SourceChatOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}
			if update.Message.Chat.ID != deps.Config.Relay.SourceChatID {
				deps.Logger.DebugContext(ctx, "Ignoring command from another chat",
					"middleware", "SourceChatOnly", "chat_id", update.Message.Chat.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}
