package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration from config.json. The file is optional;
// every field except the token has a working default, and the environment
// overrides the file.
type Config struct {
	BotToken               string `json:"bot_token"`
	AllowedChatID          int64  `json:"allowed_chat_id"`
	PollTimeoutSeconds     int    `json:"poll_timeout_seconds"`
	ConversationTTLMinutes int    `json:"conversation_ttl_minutes"`
}

var (
	cfg        Config
	configFile = "config.json"
)

// loadConfig reads the config file when present, applies defaults and env
// overrides, and validates the result. A missing file is fine; a broken one
// is not.
func loadConfig() error {
	cfg = Config{}

	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", configFile, err)
		}
		slog.Info("Config loaded", "file", configFile)
	case errors.Is(err, os.ErrNotExist):
		slog.Info("No config file, using defaults and environment", "file", configFile)
	default:
		return fmt.Errorf("reading %s: %w", configFile, err)
	}

	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	sanitizeConfig(&cfg)

	if cfg.BotToken == "" {
		return errors.New("bot token missing: set BOT_TOKEN or bot_token in " + configFile)
	}
	return nil
}

// applyConfigDefaults fills fields the file left at zero. A zero TTL means
// "use the default"; disabling expiry takes an explicit negative value.
func applyConfigDefaults(c *Config) {
	if c.PollTimeoutSeconds == 0 {
		c.PollTimeoutSeconds = 60
	}
	if c.ConversationTTLMinutes == 0 {
		c.ConversationTTLMinutes = 15
	}
}

// applyEnvOverrides lets the environment win over the file. BOT_TOKEN is
// how deployments pass the secret.
func applyEnvOverrides(c *Config) {
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		c.BotToken = token
	}
	if raw := os.Getenv("BOT_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Warn("BOT_CHAT_ID is not numeric, ignored", "value", raw)
		} else {
			c.AllowedChatID = id
		}
	}
}

// sanitizeConfig clamps out-of-range values instead of failing on them.
func sanitizeConfig(c *Config) {
	if c.PollTimeoutSeconds < 1 || c.PollTimeoutSeconds > 300 {
		slog.Warn("poll_timeout_seconds out of range, using 60", "value", c.PollTimeoutSeconds)
		c.PollTimeoutSeconds = 60
	}
	if c.ConversationTTLMinutes < 0 {
		c.ConversationTTLMinutes = 0
	}
}

// conversationTTL converts the configured minutes to a duration. Zero means
// conversations never expire.
func conversationTTL() time.Duration {
	return time.Duration(cfg.ConversationTTLMinutes) * time.Minute
}
