package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useConfigFile(t *testing.T, path string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = path
	t.Cleanup(func() { configFile = oldConfigFile })
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("BOT_CHAT_ID", "")
}

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN", "env-token")
	useConfigFile(t, filepath.Join(t.TempDir(), "config.json"))

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.BotToken != "env-token" {
		t.Fatalf("expected env token, got %q", cfg.BotToken)
	}
	if cfg.PollTimeoutSeconds != 60 {
		t.Fatalf("expected default poll timeout 60, got %d", cfg.PollTimeoutSeconds)
	}
	if cfg.ConversationTTLMinutes != 15 {
		t.Fatalf("expected default conversation ttl 15, got %d", cfg.ConversationTTLMinutes)
	}
	if cfg.AllowedChatID != 0 {
		t.Fatalf("expected public chat gate, got %d", cfg.AllowedChatID)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bot_token":"file-token","allowed_chat_id":5,"poll_timeout_seconds":30,"conversation_ttl_minutes":1}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	useConfigFile(t, path)

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.BotToken != "file-token" || cfg.AllowedChatID != 5 || cfg.PollTimeoutSeconds != 30 || cfg.ConversationTTLMinutes != 1 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bot_token":"file-token","allowed_chat_id":5}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	useConfigFile(t, path)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("BOT_CHAT_ID", "9")

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.BotToken != "env-token" {
		t.Fatalf("expected env token to win, got %q", cfg.BotToken)
	}
	if cfg.AllowedChatID != 9 {
		t.Fatalf("expected env chat id to win, got %d", cfg.AllowedChatID)
	}
}

func TestLoadConfig_BadChatIDEnvIgnored(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("BOT_CHAT_ID", "not-a-number")
	useConfigFile(t, filepath.Join(t.TempDir(), "config.json"))

	if err := loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AllowedChatID != 0 {
		t.Fatalf("expected bad BOT_CHAT_ID to be ignored, got %d", cfg.AllowedChatID)
	}
}

func TestLoadConfig_MissingTokenFails(t *testing.T) {
	clearConfigEnv(t)
	useConfigFile(t, filepath.Join(t.TempDir(), "config.json"))

	if err := loadConfig(); err == nil {
		t.Fatal("expected error when no token anywhere")
	}
}

func TestLoadConfig_BrokenJSONFails(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	useConfigFile(t, path)
	t.Setenv("BOT_TOKEN", "env-token")

	if err := loadConfig(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestSanitizeConfig_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		in       Config
		wantPoll int
		wantTTL  int
	}{
		{name: "NegativePoll", in: Config{PollTimeoutSeconds: -5, ConversationTTLMinutes: 15}, wantPoll: 60, wantTTL: 15},
		{name: "HugePoll", in: Config{PollTimeoutSeconds: 9999, ConversationTTLMinutes: 15}, wantPoll: 60, wantTTL: 15},
		{name: "NegativeTTLMeansNever", in: Config{PollTimeoutSeconds: 60, ConversationTTLMinutes: -3}, wantPoll: 60, wantTTL: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			sanitizeConfig(&c)
			if c.PollTimeoutSeconds != tt.wantPoll {
				t.Fatalf("poll: got %d want %d", c.PollTimeoutSeconds, tt.wantPoll)
			}
			if c.ConversationTTLMinutes != tt.wantTTL {
				t.Fatalf("ttl: got %d want %d", c.ConversationTTLMinutes, tt.wantTTL)
			}
		})
	}
}

func TestConversationTTL(t *testing.T) {
	oldCfg := cfg
	t.Cleanup(func() { cfg = oldCfg })

	cfg.ConversationTTLMinutes = 15
	if got := conversationTTL(); got != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", got)
	}

	cfg.ConversationTTLMinutes = 0
	if got := conversationTTL(); got != 0 {
		t.Fatalf("expected zero duration, got %v", got)
	}
}
