package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xecut/xecutbot/internal/membership"
	"github.com/xecut/xecutbot/internal/relay"
)

// Client adapts *bot.Bot to the membership.Oracle and relay.Transport
// interfaces. Every call is bounded by the configured request timeout.
type Client struct {
	bot     *bot.Bot
	timeout time.Duration
	logger  *slog.Logger
}

var (
	_ membership.Oracle = (*Client)(nil)
	_ relay.Transport   = (*Client)(nil)
)

// NewClient creates a Client. A non-positive timeout disables the per-call
// deadline.
func NewClient(b *bot.Bot, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		bot:     b,
		timeout: timeout,
		logger:  logger.With("component", "telegram_client"),
	}
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// MemberStatus asks Telegram for the user's status in the group.
func (c *Client) MemberStatus(ctx context.Context, groupID, userID int64) (membership.Status, error) {
	if groupID == 0 || userID == 0 {
		return membership.StatusUnknown, fmt.Errorf("invalid membership query: group_id=%d user_id=%d", groupID, userID)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	member, err := c.bot.GetChatMember(callCtx, &bot.GetChatMemberParams{ChatID: groupID, UserID: userID})
	if err != nil {
		return membership.StatusUnknown, fmt.Errorf("failed to get chat member: %w", err)
	}

	status := StatusOf(member)
	c.logger.DebugContext(ctx, "Resolved membership", "group_id", groupID, "user_id", userID, "status", status.String())
	return status, nil
}

// SendText posts text into a channel addressed by its public tag.
func (c *Client) SendText(ctx context.Context, channel, text string, opts relay.SendOptions) (int, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	params := &bot.SendMessageParams{ChatID: relay.ChannelChatID(channel), Text: text}
	applySendOptions(params, opts)

	msg, err := c.bot.SendMessage(callCtx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send message to %s: %w", params.ChatID, err)
	}
	return msg.ID, nil
}

// Forward forwards a message into a channel addressed by its public tag and
// returns the id of the forwarded copy.
func (c *Client) Forward(ctx context.Context, channel string, fromChatID int64, messageID int) (int, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	msg, err := c.bot.ForwardMessage(callCtx, &bot.ForwardMessageParams{
		ChatID:     relay.ChannelChatID(channel),
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to forward message %d: %w", messageID, err)
	}
	return msg.ID, nil
}

// Reply answers a message in its chat.
func (c *Client) Reply(ctx context.Context, chatID int64, messageID int, text string, opts relay.SendOptions) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	params := &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: messageID},
	}
	applySendOptions(params, opts)

	if _, err := c.bot.SendMessage(callCtx, params); err != nil {
		return fmt.Errorf("failed to reply to message %d: %w", messageID, err)
	}
	return nil
}

func applySendOptions(params *bot.SendMessageParams, opts relay.SendOptions) {
	if opts.HTML {
		params.ParseMode = models.ParseModeHTML
	}
	if opts.DisableLinkPreview {
		params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: bot.True()}
	}
}

// SetCommands publishes the bot's command list.
func (c *Client) SetCommands(ctx context.Context, commands []models.BotCommand) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.bot.SetMyCommands(callCtx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

// DropPendingUpdates discards updates queued while the bot was offline.
func (c *Client) DropPendingUpdates(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.bot.DeleteWebhook(callCtx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to drop pending updates: %w", err)
	}
	return nil
}

// CheckChats checks that the token is valid and that every given chat is
// reachable by the bot.
func (c *Client) CheckChats(ctx context.Context, chatIDs ...any) error {
	meCtx, cancel := c.callContext(ctx)
	me, err := c.bot.GetMe(meCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	c.logger.DebugContext(ctx, "Bot identity", "bot_id", me.ID, "bot_username", me.Username)

	for _, chatID := range chatIDs {
		if err := c.checkChat(ctx, chatID); err != nil {
			return err
		}
	}
	return nil
}

// checkChat runs one getChat under its own deadline.
func (c *Client) checkChat(ctx context.Context, chatID any) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.bot.GetChat(callCtx, &bot.GetChatParams{ChatID: chatID}); err != nil {
		return fmt.Errorf("chat %v is not reachable: %w", chatID, err)
	}
	return nil
}

// StatusOf maps a Telegram chat member to a membership status.
func StatusOf(member *models.ChatMember) membership.Status {
	if member == nil {
		return membership.StatusUnknown
	}
	switch member.Type {
	case models.ChatMemberTypeOwner:
		return membership.StatusOwner
	case models.ChatMemberTypeAdministrator:
		return membership.StatusAdministrator
	case models.ChatMemberTypeMember:
		return membership.StatusMember
	case models.ChatMemberTypeRestricted:
		if member.Restricted != nil && !member.Restricted.IsMember {
			return membership.StatusNotMember
		}
		return membership.StatusRestricted
	case models.ChatMemberTypeLeft:
		return membership.StatusLeft
	case models.ChatMemberTypeBanned:
		return membership.StatusBanned
	default:
		return membership.StatusUnknown
	}
}
