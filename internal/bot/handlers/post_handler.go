package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/oklog/ulid/v2"

	"github.com/xecut/xecutbot/internal/relay"
)

// NewPostHandler returns a handler for the relay command.
func NewPostHandler(deps HandlerDeps) bot.HandlerFunc {
	return postHandler{deps}.Handle
}

type postHandler struct {
	deps HandlerDeps
}

func (h postHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "post")

	ev, ok := EventFromUpdate(update)
	if !ok {
		log.WarnContext(ctx, "Post handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	outcome, handled := h.deps.Relay.Handle(ctx, ev)
	if !handled {
		return
	}
	log.InfoContext(ctx, "Handled post command", "event_id", ev.ID, "outcome", outcome.Kind.String())
}

// EventFromUpdate builds a relay event from a command message. It returns
// false if the update carries no message or no sender.
func EventFromUpdate(update *models.Update) (relay.Event, bool) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return relay.Event{}, false
	}

	msg := update.Message
	ev := relay.Event{
		ID:        ulid.Make().String(),
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		MessageID: msg.ID,
	}
	if msg.ReplyToMessage != nil {
		ev.ReplyTo = msg.ReplyToMessage.ID
	}
	return ev, true
}
