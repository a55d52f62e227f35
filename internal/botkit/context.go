package botkit

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Context is what a handler gets for one update: the transport, the
// originating message, parsed command pieces, and access to the
// conversation store and plugin catalog.
type Context struct {
	Bot BotAPI
	// Msg is the message this dispatch started from. For callbacks it is
	// the message carrying the inline keyboard.
	Msg *tgbotapi.Message
	// Query is set only for callback dispatches.
	Query *tgbotapi.CallbackQuery
	// Command is the matched command word, lowercase, without the slash.
	// Empty for conversation steps, callbacks and catch-all dispatches.
	Command string
	// Args is ArgText split on whitespace.
	Args []string
	// ArgText is the message text after the command, as typed. For
	// conversation steps and catch-all dispatches it is the whole text.
	ArgText string

	plugin  string
	convo   *Conversations
	catalog func() []CatalogEntry
}

// ChatID returns the originating chat, or 0 when the context has no message.
func (c *Context) ChatID() int64 {
	if c.Msg != nil && c.Msg.Chat != nil {
		return c.Msg.Chat.ID
	}
	return 0
}

// Reply sends plain text to the originating chat.
func (c *Context) Reply(text string) error {
	if c.Bot == nil {
		return nil
	}
	_, err := c.Bot.Send(tgbotapi.NewMessage(c.ChatID(), text))
	return err
}

// ReplyMarkdown sends Markdown text, retrying as plain text when the
// Telegram parser rejects it.
func (c *Context) ReplyMarkdown(text string) error {
	if c.Bot == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ParseMode = "Markdown"
	if _, err := c.Bot.Send(msg); err != nil {
		slog.Error("Error sending Markdown message. Retrying as plain text", "err", err)
		msg.ParseMode = ""
		_, err = c.Bot.Send(msg)
		return err
	}
	return nil
}

// ReplyWithKeyboard sends Markdown text with an inline keyboard attached.
func (c *Context) ReplyWithKeyboard(text string, kb tgbotapi.InlineKeyboardMarkup) error {
	if c.Bot == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = kb
	if _, err := c.Bot.Send(msg); err != nil {
		slog.Error("Error sending Markdown message with keyboard. Retrying as plain text", "err", err)
		msg.ParseMode = ""
		_, err = c.Bot.Send(msg)
		return err
	}
	return nil
}

// Prompt sends text with a force-reply marker so the user's client opens a
// reply box. Pair it with WaitForReply to collect the answer.
func (c *Context) Prompt(text string) error {
	if c.Bot == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}
	_, err := c.Bot.Send(msg)
	return err
}

// EditMessage rewrites a previously sent message, optionally swapping its
// keyboard, with the same plain-text fallback as ReplyMarkdown.
func (c *Context) EditMessage(msgID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if c.Bot == nil {
		return nil
	}
	edit := tgbotapi.NewEditMessageText(c.ChatID(), msgID, text)
	edit.ParseMode = "Markdown"
	if keyboard != nil {
		edit.ReplyMarkup = keyboard
	}
	if _, err := c.Bot.Send(edit); err != nil {
		slog.Error("Error editing message to Markdown. Retrying as plain text", "err", err)
		edit.ParseMode = ""
		_, err = c.Bot.Send(edit)
		return err
	}
	return nil
}

// Send passes an arbitrary chattable through, for plugins that build their
// own payloads (photos, documents, dice).
func (c *Context) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if c.Bot == nil {
		return tgbotapi.Message{}, nil
	}
	return c.Bot.Send(chattable)
}

// WaitForReply arms step as the handler for the chat's next message. The
// newest arm wins; the step must re-arm to keep the conversation open.
func (c *Context) WaitForReply(step StepHandler) {
	if c.convo == nil {
		return
	}
	origin := 0
	if c.Msg != nil {
		origin = c.Msg.MessageID
	}
	c.convo.Arm(c.ChatID(), c.plugin, origin, step)
}

// CancelWait drops any armed step for this chat.
func (c *Context) CancelWait() {
	if c.convo == nil {
		return
	}
	c.convo.Cancel(c.ChatID())
}

// Catalog lists every registered plugin, for /help style listings.
func (c *Context) Catalog() []CatalogEntry {
	if c.catalog == nil {
		return nil
	}
	return c.catalog()
}
