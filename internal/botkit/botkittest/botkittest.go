// Package botkittest provides a fake transport and update fixtures for
// plugin tests, so they can drive a real registry and dispatcher without
// touching Telegram.
package botkittest

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/botkit"
)

// Bot records everything a handler sends. It implements botkit.BotAPI.
type Bot struct {
	Sent     []tgbotapi.Chattable
	Requests []tgbotapi.Chattable
}

func (b *Bot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.Sent = append(b.Sent, c)
	return tgbotapi.Message{MessageID: len(b.Sent)}, nil
}

func (b *Bot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.Requests = append(b.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// Texts flattens the recorded sends into message texts, in order.
func (b *Bot) Texts() []string {
	var out []string
	for _, c := range b.Sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

// LastKeyboard returns the inline keyboard of the most recent send that
// carried one.
func (b *Bot) LastKeyboard() (tgbotapi.InlineKeyboardMarkup, bool) {
	for i := len(b.Sent) - 1; i >= 0; i-- {
		switch m := b.Sent[i].(type) {
		case tgbotapi.MessageConfig:
			if kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
				return kb, true
			}
		case tgbotapi.EditMessageTextConfig:
			if m.ReplyMarkup != nil {
				return *m.ReplyMarkup, true
			}
		}
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}

// Rig wires plugins into a fresh registry and dispatcher with a
// one-minute conversation TTL.
func Rig(plugins ...botkit.Plugin) (*botkit.Dispatcher, *botkit.Conversations, error) {
	reg := botkit.NewRegistry()
	for _, p := range plugins {
		if err := reg.Register(p); err != nil {
			return nil, nil, err
		}
	}
	convo := botkit.NewConversations(time.Minute)
	return botkit.NewDispatcher(reg, convo), convo, nil
}

// CommandMessage builds a message whose text starts with a slash command,
// with the bot_command entity Telegram would attach.
func CommandMessage(chatID int64, text string) *tgbotapi.Message {
	length := strings.Index(text, " ")
	if length < 0 {
		length = len(text)
	}
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

// TextMessage builds a plain message with no entities.
func TextMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

// CallbackQuery builds a button press carrying payload, attached to a
// keyboard-bearing message in the chat.
func CallbackQuery(chatID int64, payload string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cbq-1",
		Data: payload,
		Message: &tgbotapi.Message{
			MessageID: 50,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
	}
}
