package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler with its middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	Description string
}

// RegisterAllCommands returns the bot's commands keyed by their slash name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	command := deps.Config.Relay.Command

	return map[string]RegisteredHandler{
		"/" + command: {
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     command,
			Handler:     NewPostHandler(deps),
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  []tgbot.Middleware{Recover(deps), SourceChatOnly(deps)},
			Description: deps.Config.Relay.CommandDescription,
		},
	}
}

// BotCommands lists registered handlers in the form setMyCommands expects.
func BotCommands(registered map[string]RegisteredHandler) []models.BotCommand {
	commands := make([]models.BotCommand, 0, len(registered))
	for _, h := range registered {
		if h.Description == "" {
			continue
		}
		commands = append(commands, models.BotCommand{Command: h.Pattern, Description: h.Description})
	}
	return commands
}
