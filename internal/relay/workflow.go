// Package relay implements the resident-only relay of chat messages into the
// public channel: authorize, announce, forward and confirm.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/xecut/xecutbot/internal/membership"
)

// Messages are the user-facing replies. Success may contain the
// {post_link} and {origin_link} placeholders.
type Messages struct {
	Denied  string
	Usage   string
	Failure string
	Success string
}

// Settings are the fixed identifiers the workflow operates on.
type Settings struct {
	SourceChatID       int64
	SourceChatAlias    string
	ResidentGroupID    int64
	DestinationChannel string
	LinkHost           string
	Messages           Messages
}

// Workflow relays replied-to messages from the source chat into the
// destination channel on behalf of residents. It holds no per-event state and
// is safe for concurrent use.
type Workflow struct {
	settings  Settings
	oracle    membership.Oracle
	transport Transport
	logger    *slog.Logger
}

// NewWorkflow creates a Workflow.
func NewWorkflow(logger *slog.Logger, settings Settings, oracle membership.Oracle, transport Transport) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		settings:  settings,
		oracle:    oracle,
		transport: transport,
		logger:    logger.With("component", "relay"),
	}
}

// Handle runs the workflow for ev and answers the invoking message according
// to the outcome. It returns false if ev was outside the source chat and
// nothing was done.
func (w *Workflow) Handle(ctx context.Context, ev Event) (Outcome, bool) {
	p := w.newProgress(ev)
	outcome, ok := w.run(ctx, ev, p)
	if !ok {
		return outcome, false
	}
	w.reply(ctx, ev, outcome, p)
	return outcome, true
}

// run performs the authorization check and the announce and forward calls
// without replying to the user.
func (w *Workflow) run(ctx context.Context, ev Event, p *progress) (Outcome, bool) {
	log := w.logger.With("event_id", ev.ID, "chat_id", ev.ChatID, "user_id", ev.UserID, "message_id", ev.MessageID)

	if ev.ChatID != w.settings.SourceChatID {
		log.DebugContext(ctx, "Ignoring command outside the source chat")
		return Outcome{}, false
	}

	status, err := w.oracle.MemberStatus(ctx, w.settings.ResidentGroupID, ev.UserID)
	if err != nil {
		p.to(ctx, StateFailed)
		return failure(transportError(PhaseMembership, err)), true
	}
	if !membership.IsAuthorized(status) {
		log.InfoContext(ctx, "User is not a resident", "status", status.String())
		return Outcome{Kind: OutcomeUnauthorized, Err: ErrUnauthorized}, true
	}

	if !ev.HasReplyTarget() {
		log.DebugContext(ctx, "Command is not a reply")
		return Outcome{Kind: OutcomeNoReplyTarget, Err: ErrNoReplyTarget}, true
	}

	originLink := MessageLink(w.settings.LinkHost, w.settings.SourceChatAlias, ev.ReplyTo)

	if _, err := w.transport.SendText(ctx, w.settings.DestinationChannel, originLink, SendOptions{DisableLinkPreview: true}); err != nil {
		p.to(ctx, StateFailed)
		return failure(transportError(PhaseAnnounce, err)), true
	}
	p.to(ctx, StateAnnounced)

	forwardedID, err := w.transport.Forward(ctx, w.settings.DestinationChannel, ev.ChatID, ev.ReplyTo)
	if err != nil {
		// The announcement stays in the channel.
		p.to(ctx, StateFailed)
		return failure(transportError(PhaseForward, err)), true
	}
	p.to(ctx, StateForwarded)

	return Outcome{
		Kind:               OutcomeSuccess,
		AnnouncementLink:   originLink,
		ForwardedMessageID: forwardedID,
		PostLink:           MessageLink(w.settings.LinkHost, w.settings.DestinationChannel, forwardedID),
	}, true
}

func failure(err error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Err: err}
}

// reply maps an outcome to exactly one answer to the invoking message.
func (w *Workflow) reply(ctx context.Context, ev Event, outcome Outcome, p *progress) {
	log := w.logger.With("event_id", ev.ID, "chat_id", ev.ChatID, "outcome", outcome.Kind.String())
	msgs := w.settings.Messages

	var (
		text string
		opts SendOptions
	)
	switch {
	case outcome.Kind == OutcomeSuccess:
		text = strings.NewReplacer(
			"{post_link}", outcome.PostLink,
			"{origin_link}", outcome.AnnouncementLink,
		).Replace(msgs.Success)
		opts = SendOptions{HTML: true, DisableLinkPreview: true}
	case errors.Is(outcome.Err, ErrUnauthorized):
		text = msgs.Denied
	case errors.Is(outcome.Err, ErrNoReplyTarget):
		text = msgs.Usage
	default:
		log.ErrorContext(ctx, "Relay failed", "phase", string(FailedPhase(outcome.Err)), "error", outcome.Err)
		text = msgs.Failure
	}

	if err := w.transport.Reply(ctx, ev.ChatID, ev.MessageID, text, opts); err != nil {
		log.ErrorContext(ctx, "Failed to reply to command", "error", err)
		return
	}

	if outcome.Kind == OutcomeSuccess {
		p.to(ctx, StateConfirmed)
		log.InfoContext(ctx, "Message relayed", "forwarded_message_id", outcome.ForwardedMessageID, "post_link", outcome.PostLink)
	}
}

func (w *Workflow) newProgress(ev Event) *progress {
	return &progress{
		state: StateIdle,
		log:   w.logger.With("event_id", ev.ID, "chat_id", ev.ChatID, "reply_to", ev.ReplyTo),
	}
}

// progress logs every state transition of one relay.
type progress struct {
	state State
	log   *slog.Logger
}

func (p *progress) to(ctx context.Context, next State) {
	p.log.InfoContext(ctx, "Relay state changed", "from", p.state.String(), "to", next.String())
	p.state = next
}
