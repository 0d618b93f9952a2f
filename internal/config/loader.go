package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. XECUT_BOT_RELAY_SOURCE_CHAT_ID.
const EnvPrefix = "XECUT_BOT"

// LegacyTokenEnv is the variable older deployments used for the bot token.
const LegacyTokenEnv = "XECUT_TG_API_KEY"

var (
	// ErrMissingToken is returned when no bot token was configured anywhere.
	ErrMissingToken = errors.New("telegram bot token is not set: provide telegram.token in the config file, " +
		EnvPrefix + "_TELEGRAM_TOKEN or " + LegacyTokenEnv)
	// ErrValidation wraps all other validation failures.
	ErrValidation = errors.New("invalid configuration")
)

// LoadConfig reads configuration from:
//  1. built-in defaults
//  2. the YAML file at path, if it exists
//  3. XECUT_BOT_* environment variables (and XECUT_TG_API_KEY for the token)
//
// and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", LegacyTokenEnv); err != nil {
		return nil, fmt.Errorf("failed to bind token environment: %w", err)
	}

	if path != "" {
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration. A missing token is reported as
// ErrMissingToken so callers can tell it apart from other mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingToken
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// isNotFound reports whether err means the config file does not exist. With
// an explicit file path viper surfaces the os error rather than
// ConfigFileNotFoundError.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
