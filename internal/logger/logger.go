// Package logger builds the application slog logger and the update logging
// middleware for the Telegram dispatcher.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a slog Logger writing to stdout with the given level and
// format ("json" or "text") and installs it as the default logger.
func NewLogger(levelStr, format string) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, levelStr, format))
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, levelStr, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware logs every incoming update together with how long its handler
// took.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			entry := log.With(UpdateAttrs(update)...)

			entry.InfoContext(ctx, "Processing update")
			next(ctx, b, update)
			entry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// UpdateAttrs returns the log attributes identifying an update.
func UpdateAttrs(update *models.Update) []any {
	attrs := []any{"update_id", update.ID}
	if update.Message == nil {
		return append(attrs, "update_type", "other")
	}

	msg := update.Message
	attrs = append(attrs,
		"update_type", "message",
		"message_id", msg.ID,
		"chat_id", msg.Chat.ID,
		"text_preview", truncateString(msg.Text, 50),
	)
	if msg.From != nil {
		attrs = append(attrs, "user_id", msg.From.ID)
	}
	if msg.ReplyToMessage != nil {
		attrs = append(attrs, "reply_to", msg.ReplyToMessage.ID)
	}
	return attrs
}

// truncateString limits s to maxLen runes so previews of non-Latin text stay
// valid UTF-8.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
