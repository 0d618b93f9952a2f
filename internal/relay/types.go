package relay

import (
	"context"
	"fmt"
	"strings"
)

// Event is one inbound relay command.
type Event struct {
	// ID correlates log lines belonging to the same command.
	ID        string
	ChatID    int64
	UserID    int64
	MessageID int
	// ReplyTo is the message the command replied to; zero when absent.
	ReplyTo int
}

// HasReplyTarget reports whether the command was issued as a reply.
func (e Event) HasReplyTarget() bool {
	return e.ReplyTo > 0
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	OutcomeUnauthorized OutcomeKind = iota + 1
	OutcomeNoReplyTarget
	OutcomeSuccess
	OutcomeTransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeNoReplyTarget:
		return "no_reply_target"
	case OutcomeSuccess:
		return "success"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "invalid"
	}
}

// Outcome is the result of running the workflow for one Event.
type Outcome struct {
	Kind OutcomeKind

	// Set on success.
	AnnouncementLink   string
	ForwardedMessageID int
	PostLink           string

	// Set on every non-success outcome.
	Err error
}

// State tracks how far a single relay got.
type State int

const (
	StateIdle State = iota
	StateAnnounced
	StateForwarded
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnnounced:
		return "announced"
	case StateForwarded:
		return "forwarded"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// SendOptions controls how a text message is rendered.
type SendOptions struct {
	HTML               bool
	DisableLinkPreview bool
}

// Transport is the subset of the chat service the workflow drives.
// Implementations must be safe for concurrent use.
type Transport interface {
	// SendText posts text to a channel addressed by its public tag and
	// returns the new message id.
	SendText(ctx context.Context, channel, text string, opts SendOptions) (int, error)
	// Forward copies a message from a chat into a channel and returns the id
	// of the forwarded copy.
	Forward(ctx context.Context, channel string, fromChatID int64, messageID int) (int, error)
	// Reply answers a message in the chat it was sent in.
	Reply(ctx context.Context, chatID int64, messageID int, text string, opts SendOptions) error
}

// MessageLink builds a public link to a message in a chat or channel
// addressed by its public alias, e.g. https://t.me/xecut_live/42.
func MessageLink(host, alias string, messageID int) string {
	return fmt.Sprintf("https://%s/%s/%d", host, strings.TrimPrefix(alias, "@"), messageID)
}

// ChannelChatID turns a channel tag into the "@tag" form the Bot API accepts.
func ChannelChatID(tag string) string {
	return "@" + strings.TrimPrefix(tag, "@")
}
