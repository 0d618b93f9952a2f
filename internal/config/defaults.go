package config

import "time"

// Defaults for optional settings. The chat identifiers default to the Xecut
// hackerspace chats.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout     = 30 * time.Second
	DefaultDropPendingUpdates = true

	DefaultCommand            = "post"
	DefaultCommandDescription = "Repost the replied-to message to Xecut Live"
	DefaultSourceChatID       = int64(-1002089160630)
	DefaultSourceChatAlias    = "xecut_chat"
	DefaultResidentGroupID    = int64(-1002614784999)
	DefaultDestinationChannel = "xecut_live"
	DefaultLinkHost           = "t.me"

	DefaultHealthCheckSchedule = "0 */15 * * * *"
)

// DefaultMessages are the stock replies.
var DefaultMessages = MessagesConfig{
	Denied:  "Posting to Xecut Live requires hackerspace resident status.",
	Usage:   "Send this command as a reply to a message.",
	Failure: "Something went wrong, please try again later.",
	Success: `Posted to <a href="{post_link}">Xecut Live</a> (<a href="{origin_link}">original</a>)`,
}

var defaults = map[string]any{
	"log.level":  DefaultLogLevel,
	"log.format": DefaultLogFormat,

	"telegram.request_timeout":      DefaultRequestTimeout,
	"telegram.drop_pending_updates": DefaultDropPendingUpdates,
	"telegram.server_url":           "",

	"relay.command":             DefaultCommand,
	"relay.command_description": DefaultCommandDescription,
	"relay.source_chat_id":      DefaultSourceChatID,
	"relay.source_chat_alias":   DefaultSourceChatAlias,
	"relay.resident_group_id":   DefaultResidentGroupID,
	"relay.destination_channel": DefaultDestinationChannel,
	"relay.link_host":           DefaultLinkHost,

	"messages.denied":  DefaultMessages.Denied,
	"messages.usage":   DefaultMessages.Usage,
	"messages.failure": DefaultMessages.Failure,
	"messages.success": DefaultMessages.Success,

	"scheduler.tasks.health_check.enabled":  true,
	"scheduler.tasks.health_check.schedule": DefaultHealthCheckSchedule,
}
