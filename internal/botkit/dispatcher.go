package botkit

import (
	"log/slog"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/callbackdata"
)

// failureReply is what a chat sees when its handler fails. Details stay in
// the log.
const failureReply = "⚠️ Something went wrong on my side. Please try again."

// Dispatcher routes updates to plugin handlers and contains their failures.
// A handler error or panic is logged, answered with a generic apology, and
// never stops the update loop.
type Dispatcher struct {
	reg   *Registry
	convo *Conversations
}

func NewDispatcher(reg *Registry, convo *Conversations) *Dispatcher {
	return &Dispatcher{reg: reg, convo: convo}
}

// HandleUpdate routes one long-poll update.
func (d *Dispatcher) HandleUpdate(bot BotAPI, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		d.HandleCallback(bot, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		d.HandleMessage(bot, update.Message)
	}
}

// HandleMessage routes a text message. An armed conversation step always
// wins, even when the message looks like a command: mid-dialog input belongs
// to the dialog. After that, command routing; after that, the catch-all.
func (d *Dispatcher) HandleMessage(bot BotAPI, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}

	if step, owner, ok := d.convo.Consume(msg.Chat.ID); ok {
		ctx := d.newContext(bot, msg, owner)
		ctx.ArgText = msg.Text
		ctx.Args = strings.Fields(msg.Text)
		d.invoke(ctx, owner, "step", func() error { return step(ctx) })
		return
	}

	if msg.IsCommand() {
		command := strings.ToLower(msg.Command())
		if b, ok := d.reg.lookup(command); ok {
			ctx := d.newContext(bot, msg, b.name)
			ctx.Command = command
			ctx.ArgText = msg.CommandArguments()
			ctx.Args = strings.Fields(ctx.ArgText)
			d.invoke(ctx, b.name, "command", func() error {
				return b.plugin.OnCommand(ctx, command, ctx.Args)
			})
			return
		}
	}

	if ca, owner, ok := d.reg.Catchall(); ok {
		ctx := d.newContext(bot, msg, owner)
		ctx.ArgText = msg.Text
		ctx.Args = strings.Fields(msg.Text)
		d.invoke(ctx, owner, "catchall", func() error { return ca.OnUnmatched(ctx) })
		return
	}

	slog.Debug("Message with no owner dropped", "chat", msg.Chat.ID)
}

// HandleCallback acks a button press and routes its payload by namespace
// prefix. Unclaimed and malformed payloads are logged and dropped; the user
// never sees a decoding error.
func (d *Dispatcher) HandleCallback(bot BotAPI, query *tgbotapi.CallbackQuery) {
	if query == nil || query.Message == nil {
		return
	}
	if bot != nil {
		bot.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	prefix, _, _ := strings.Cut(query.Data, callbackdata.Separator)
	b, ok := d.reg.callbackOwner(prefix)
	if !ok {
		slog.Warn("Unclaimed callback payload dropped", "prefix", prefix, "chat", query.Message.Chat.ID)
		return
	}

	values, claimed, err := b.ns.Decode(query.Data)
	if err != nil || !claimed {
		slog.Error("Malformed callback payload dropped", "plugin", b.name, "payload", query.Data, "err", err)
		return
	}

	ctx := d.newContext(bot, query.Message, b.name)
	ctx.Query = query
	d.invoke(ctx, b.name, "callback", func() error { return b.plugin.OnCallback(ctx, values) })
}

func (d *Dispatcher) newContext(bot BotAPI, msg *tgbotapi.Message, plugin string) *Context {
	return &Context{
		Bot:     bot,
		Msg:     msg,
		plugin:  plugin,
		convo:   d.convo,
		catalog: d.reg.Catalog,
	}
}

// invoke is the failure boundary around every handler call.
func (d *Dispatcher) invoke(ctx *Context, plugin, kind string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Handler panicked", "plugin", plugin, "kind", kind, "chat", ctx.ChatID(), "err", r, "stack", string(debug.Stack()))
			if err := ctx.Reply(failureReply); err != nil {
				slog.Error("Failed to send failure reply", "chat", ctx.ChatID(), "err", err)
			}
		}
	}()

	if err := fn(); err != nil {
		slog.Error("Handler failed", "plugin", plugin, "kind", kind, "chat", ctx.ChatID(), "err", err)
		if err := ctx.Reply(failureReply); err != nil {
			slog.Error("Failed to send failure reply", "chat", ctx.ChatID(), "err", err)
		}
	}
}
