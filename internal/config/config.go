// Package config loads the bot configuration from a YAML file, environment
// variables and built-in defaults, and validates it.
package config

import (
	"time"

	"github.com/xecut/xecutbot/internal/relay"
)

// Config is the full application configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds the Bot API credential and client behaviour.
type TelegramConfig struct {
	Token              string        `mapstructure:"token"                validate:"required"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"      validate:"min=1s,max=2m"`
	DropPendingUpdates bool          `mapstructure:"drop_pending_updates"`
	// ServerURL overrides the Bot API endpoint; empty means the public API.
	ServerURL string `mapstructure:"server_url" validate:"omitempty,url"`
}

// RelayConfig identifies the chats the relay works with.
type RelayConfig struct {
	Command            string `mapstructure:"command"             validate:"required"`
	CommandDescription string `mapstructure:"command_description" validate:"required"`
	SourceChatID       int64  `mapstructure:"source_chat_id"      validate:"required"`
	SourceChatAlias    string `mapstructure:"source_chat_alias"   validate:"required"`
	ResidentGroupID    int64  `mapstructure:"resident_group_id"   validate:"required,nefield=SourceChatID"`
	DestinationChannel string `mapstructure:"destination_channel" validate:"required"`
	LinkHost           string `mapstructure:"link_host"           validate:"required,hostname_rfc1123"`
}

// MessagesConfig holds the user-facing replies.
type MessagesConfig struct {
	Denied  string `mapstructure:"denied"  validate:"required"`
	Usage   string `mapstructure:"usage"   validate:"required"`
	Failure string `mapstructure:"failure" validate:"required"`
	Success string `mapstructure:"success" validate:"required,contains={post_link},contains={origin_link}"`
}

// SchedulerConfig lists periodic tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// RelaySettings returns the subset of the configuration the relay workflow
// needs.
func (c *Config) RelaySettings() relay.Settings {
	return relay.Settings{
		SourceChatID:       c.Relay.SourceChatID,
		SourceChatAlias:    c.Relay.SourceChatAlias,
		ResidentGroupID:    c.Relay.ResidentGroupID,
		DestinationChannel: c.Relay.DestinationChannel,
		LinkHost:           c.Relay.LinkHost,
		Messages: relay.Messages{
			Denied:  c.Messages.Denied,
			Usage:   c.Messages.Usage,
			Failure: c.Messages.Failure,
			Success: c.Messages.Success,
		},
	}
}
