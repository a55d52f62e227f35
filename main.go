package main

import (
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/botkit"
	_ "atombot/plugins"
)

func main() {
	setupLogger()
	defer closeLogger()
	slog.Info("Starting atombot...")

	if err := loadConfig(); err != nil {
		slog.Error("Configuration invalid", "err", err)
		os.Exit(1)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("Bot startup failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Bot authorized", "username", bot.Self.UserName)

	convo := botkit.NewConversations(conversationTTL())
	reg := botkit.NewRegistry()
	for _, p := range botkit.LoadAll() {
		// A broken registration is a programming error; refuse to start
		// half-wired.
		if err := reg.Register(p); err != nil {
			slog.Error("Plugin registration failed", "err", err)
			os.Exit(1)
		}
	}
	slog.Info("Commands bound", "count", reg.CommandCount())

	dispatcher := botkit.NewDispatcher(reg, convo)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.PollTimeoutSeconds
	updates := bot.GetUpdatesChan(u)

	sweeper := time.NewTicker(time.Minute)
	defer sweeper.Stop()
	go func() {
		for range sweeper.C {
			if n := convo.Sweep(); n > 0 {
				slog.Debug("Expired conversations swept", "count", n)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("atombot started successfully")

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				slog.Info("Update channel closed")
				return
			}
			if !allowedUpdate(update) {
				continue
			}
			go dispatchUpdate(bot, dispatcher, update)
		case sig := <-sigChan:
			slog.Info("Shutting down", "signal", sig.String())
			bot.StopReceivingUpdates()
			return
		}
	}
}

// dispatchUpdate runs one update on its own goroutine. The dispatcher
// contains handler failures itself; this recover catches bugs in the
// dispatch path.
func dispatchUpdate(bot botkit.BotAPI, d *botkit.Dispatcher, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic recovered in goroutine", "goroutine", "dispatch", "err", r, "stack", string(debug.Stack()))
		}
	}()
	d.HandleUpdate(bot, update)
}

// allowedUpdate gates traffic to the configured chat. Zero means public.
func allowedUpdate(update tgbotapi.Update) bool {
	if cfg.AllowedChatID == 0 {
		return true
	}
	chatID := updateChatID(update)
	if chatID != cfg.AllowedChatID {
		slog.Debug("Update from foreign chat dropped", "chat", chatID)
		return false
	}
	return true
}

func updateChatID(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.Chat != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
