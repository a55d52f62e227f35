// Package dialog is the inline-keyboard and conversation walkthrough: two
// buttons that answer directly, and one that opens a force-reply echo loop.
package dialog

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/botkit"
	"atombot/internal/callbackdata"
)

func init() {
	botkit.RegisterFactory("dialog", New)
}

// Dialog demonstrates the two interaction styles plugins can use: namespaced
// callback buttons and armed reply steps.
type Dialog struct {
	ns *callbackdata.Namespace

	yesPayload    string
	noPayload     string
	promptPayload string
}

func New() (botkit.Plugin, error) {
	p := &Dialog{ns: callbackdata.MustNew("dialog", "action")}
	for action, dst := range map[string]*string{
		"yes":    &p.yesPayload,
		"no":     &p.noPayload,
		"prompt": &p.promptPayload,
	} {
		data, err := p.ns.Encode(map[string]string{"action": action})
		if err != nil {
			return nil, err
		}
		*dst = data
	}
	return p, nil
}

func (p *Dialog) Info() botkit.Info {
	return botkit.Info{
		Name:     "dialog",
		Commands: []string{"dialog"},
		Authors:  []string{"atombot"},
		About:    "Buttons and a reply-chain demo",
		Description: "/dialog shows Yes, No and Talk buttons. Yes and No answer in place; " +
			"Talk opens a reply loop that echoes what you send until you send exit.",
	}
}

func (p *Dialog) Enabled() bool { return true }

func (p *Dialog) Namespace() *callbackdata.Namespace { return p.ns }

func (p *Dialog) OnCommand(ctx *botkit.Context, _ string, _ []string) error {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes", p.yesPayload),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", p.noPayload),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Talk to me", p.promptPayload),
		),
	)
	return ctx.ReplyWithKeyboard("What should it be?", kb)
}

func (p *Dialog) OnCallback(ctx *botkit.Context, values map[string]string) error {
	switch values["action"] {
	case "yes":
		return ctx.Reply("The answer is YES")
	case "no":
		return ctx.Reply("The answer is NO")
	case "prompt":
		ctx.WaitForReply(p.echoStep)
		return ctx.Prompt("Send me some text. exit ends the dialog.")
	}
	return nil
}

// echoStep repeats what the user sent and re-arms itself, so the dialog
// stays open until the user sends exit.
func (p *Dialog) echoStep(ctx *botkit.Context) error {
	if strings.EqualFold(strings.TrimSpace(ctx.ArgText), "exit") {
		return ctx.Reply("Dialog closed.")
	}
	ctx.WaitForReply(p.echoStep)
	return ctx.Prompt(fmt.Sprintf("text = %s; chat = %d\nSend exit to stop.", ctx.ArgText, ctx.ChatID()))
}
