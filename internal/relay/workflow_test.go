package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xecut/xecutbot/internal/membership"
	"github.com/xecut/xecutbot/internal/relay"
)

const (
	sourceChatID    = int64(-1002089160630)
	residentGroupID = int64(-1002614784999)
	userID          = int64(1001)
)

type call struct {
	method string
	chat   any
	id     int
	text   string
	opts   relay.SendOptions
}

// recorder implements both membership.Oracle and relay.Transport and keeps
// every call in order.
type recorder struct {
	calls []call

	status     membership.Status
	statusErr  error
	sendErr    error
	forwardErr error
	replyErr   error
	forwardID  int
}

func (r *recorder) MemberStatus(_ context.Context, groupID, uid int64) (membership.Status, error) {
	r.calls = append(r.calls, call{method: "member_status", chat: groupID, id: int(uid)})
	return r.status, r.statusErr
}

func (r *recorder) SendText(_ context.Context, channel, text string, opts relay.SendOptions) (int, error) {
	r.calls = append(r.calls, call{method: "send_text", chat: channel, text: text, opts: opts})
	if r.sendErr != nil {
		return 0, r.sendErr
	}
	return 900, nil
}

func (r *recorder) Forward(_ context.Context, channel string, fromChatID int64, messageID int) (int, error) {
	r.calls = append(r.calls, call{method: "forward", chat: channel, id: messageID})
	if r.forwardErr != nil {
		return 0, r.forwardErr
	}
	return r.forwardID, nil
}

func (r *recorder) Reply(_ context.Context, chatID int64, messageID int, text string, opts relay.SendOptions) error {
	r.calls = append(r.calls, call{method: "reply", chat: chatID, id: messageID, text: text, opts: opts})
	return r.replyErr
}

func (r *recorder) methods() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.method)
	}
	return out
}

func (r *recorder) replies() []call {
	var out []call
	for _, c := range r.calls {
		if c.method == "reply" {
			out = append(out, c)
		}
	}
	return out
}

func testSettings() relay.Settings {
	return relay.Settings{
		SourceChatID:       sourceChatID,
		SourceChatAlias:    "xecut_chat",
		ResidentGroupID:    residentGroupID,
		DestinationChannel: "xecut_live",
		LinkHost:           "t.me",
		Messages: relay.Messages{
			Denied:  "denied",
			Usage:   "usage",
			Failure: "failure",
			Success: `posted <a href="{post_link}">here</a> from <a href="{origin_link}">there</a>`,
		},
	}
}

func newWorkflow(r *recorder) *relay.Workflow {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return relay.NewWorkflow(logger, testSettings(), r, r)
}

func command(replyTo int) relay.Event {
	return relay.Event{ID: "test", ChatID: sourceChatID, UserID: userID, MessageID: 77, ReplyTo: replyTo}
}

func TestHandleIgnoresForeignChat(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusOwner, forwardID: 5}
	ev := command(10)
	ev.ChatID = 12345

	_, handled := newWorkflow(r).Handle(context.Background(), ev)

	assert.False(t, handled)
	assert.Empty(t, r.calls)
}

func TestHandleAuthorizedWithoutReplyTarget(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusMember}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(0))

	require.True(t, handled)
	assert.Equal(t, relay.OutcomeNoReplyTarget, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, relay.ErrNoReplyTarget)
	assert.Equal(t, []string{"member_status", "reply"}, r.methods())
	assert.Equal(t, "usage", r.replies()[0].text)
	assert.Equal(t, 77, r.replies()[0].id)
}

func TestHandleUnauthorized(t *testing.T) {
	t.Parallel()

	for _, status := range []membership.Status{
		membership.StatusUnknown,
		membership.StatusNotMember,
		membership.StatusLeft,
		membership.StatusBanned,
		membership.StatusRestricted,
	} {
		t.Run(status.String(), func(t *testing.T) {
			t.Parallel()

			r := &recorder{status: status}
			outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

			require.True(t, handled)
			assert.Equal(t, relay.OutcomeUnauthorized, outcome.Kind)
			assert.ErrorIs(t, outcome.Err, relay.ErrUnauthorized)
			assert.Equal(t, []string{"member_status", "reply"}, r.methods())
			assert.Equal(t, residentGroupID, r.calls[0].chat)
			assert.Equal(t, int(userID), r.calls[0].id)
			assert.Equal(t, "denied", r.replies()[0].text)
		})
	}
}

func TestHandleSuccess(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusAdministrator, forwardID: 4242}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

	require.True(t, handled)
	require.Equal(t, relay.OutcomeSuccess, outcome.Kind)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, []string{"member_status", "send_text", "forward", "reply"}, r.methods())

	announce := r.calls[1]
	assert.Equal(t, "xecut_live", announce.chat)
	assert.Equal(t, "https://t.me/xecut_chat/10", announce.text)
	assert.True(t, announce.opts.DisableLinkPreview)

	forward := r.calls[2]
	assert.Equal(t, "xecut_live", forward.chat)
	assert.Equal(t, 10, forward.id)

	assert.Equal(t, "https://t.me/xecut_chat/10", outcome.AnnouncementLink)
	assert.Equal(t, 4242, outcome.ForwardedMessageID)
	assert.Equal(t, "https://t.me/xecut_live/4242", outcome.PostLink)

	reply := r.replies()[0]
	assert.Equal(t, sourceChatID, reply.chat)
	assert.Equal(t, 77, reply.id)
	assert.Equal(t, `posted <a href="https://t.me/xecut_live/4242">here</a> from <a href="https://t.me/xecut_chat/10">there</a>`, reply.text)
	assert.Equal(t, relay.SendOptions{HTML: true, DisableLinkPreview: true}, reply.opts)
}

func TestHandleConfirmationUsesForwardedID(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusOwner, forwardID: 31337}

	outcome, _ := newWorkflow(r).Handle(context.Background(), command(10))

	reply := r.replies()[0]
	assert.Contains(t, reply.text, "https://t.me/xecut_live/31337")
	assert.NotContains(t, reply.text, "https://t.me/xecut_live/10")
	assert.Equal(t, 31337, outcome.ForwardedMessageID)
}

func TestHandleForwardFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("forbidden")
	r := &recorder{status: membership.StatusMember, forwardErr: cause}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

	require.True(t, handled)
	assert.Equal(t, relay.OutcomeTransportFailure, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, cause)
	assert.Equal(t, relay.PhaseForward, relay.FailedPhase(outcome.Err))
	assert.Equal(t, []string{"member_status", "send_text", "forward", "reply"}, r.methods())
	require.Len(t, r.replies(), 1)
	assert.Equal(t, "failure", r.replies()[0].text)
}

func TestHandleAnnounceFailureSkipsForward(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusMember, sendErr: errors.New("timeout")}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

	require.True(t, handled)
	assert.Equal(t, relay.OutcomeTransportFailure, outcome.Kind)
	assert.Equal(t, relay.PhaseAnnounce, relay.FailedPhase(outcome.Err))
	assert.Equal(t, []string{"member_status", "send_text", "reply"}, r.methods())
	assert.Equal(t, "failure", r.replies()[0].text)
}

func TestHandleMembershipQueryFailure(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusOwner, statusErr: errors.New("user not found")}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

	require.True(t, handled)
	assert.Equal(t, relay.OutcomeTransportFailure, outcome.Kind)
	assert.Equal(t, relay.PhaseMembership, relay.FailedPhase(outcome.Err))
	assert.Equal(t, []string{"member_status", "reply"}, r.methods())
	assert.Equal(t, "failure", r.replies()[0].text)
}

func TestHandleSwallowsReplyFailure(t *testing.T) {
	t.Parallel()

	r := &recorder{status: membership.StatusMember, forwardID: 8, replyErr: errors.New("chat not found")}

	outcome, handled := newWorkflow(r).Handle(context.Background(), command(10))

	require.True(t, handled)
	assert.Equal(t, relay.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, []string{"member_status", "send_text", "forward", "reply"}, r.methods())
}

func TestHandleLogsFailedStateForEveryPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase relay.Phase
		rec   *recorder
	}{
		{relay.PhaseMembership, &recorder{statusErr: errors.New("user not found")}},
		{relay.PhaseAnnounce, &recorder{status: membership.StatusMember, sendErr: errors.New("timeout")}},
		{relay.PhaseForward, &recorder{status: membership.StatusMember, forwardErr: errors.New("forbidden")}},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			ev := command(10)
			ev.ID = "01J0EVENT" + strings.ToUpper(string(tt.phase))

			outcome, handled := relay.NewWorkflow(logger, testSettings(), tt.rec, tt.rec).Handle(context.Background(), ev)
			require.True(t, handled)
			require.Equal(t, tt.phase, relay.FailedPhase(outcome.Err))

			var failed []map[string]any
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var record map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &record))
				if record["msg"] == "Relay state changed" && record["to"] == "failed" {
					failed = append(failed, record)
				}
			}
			require.Len(t, failed, 1)
			assert.Equal(t, ev.ID, failed[0]["event_id"])
		})
	}
}

func TestMessageLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://t.me/xecut_live/5", relay.MessageLink("t.me", "@xecut_live", 5))
	assert.Equal(t, "https://t.me/xecut_chat/7", relay.MessageLink("t.me", "xecut_chat", 7))
	assert.Equal(t, "@xecut_live", relay.ChannelChatID("xecut_live"))
	assert.Equal(t, "@xecut_live", relay.ChannelChatID("@xecut_live"))
}
