// Package greet owns the bot's introduction commands and the catch-all
// reply for messages nobody else claims.
package greet

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sahilm/fuzzy"

	"atombot/internal/botkit"
	"atombot/internal/callbackdata"
)

func init() {
	botkit.RegisterFactory("greet", New)
}

const welcome = "👋 Hi! I am atombot, a small plugin-driven bot.\n" +
	"Every command I understand belongs to a plugin, and /help lists them all."

const about = "atombot routes each command to the plugin that declared it. " +
	"Plugins register themselves at startup; drop a new one in and it shows up under /help."

// Greeter answers /start, /help and /info plus their single-letter aliases,
// and picks up anything no other plugin owns.
type Greeter struct {
	ns *callbackdata.Namespace

	helpPayload  string
	aboutPayload string
}

func New() (botkit.Plugin, error) {
	p := &Greeter{ns: callbackdata.MustNew("greet", "cmd")}
	var err error
	if p.helpPayload, err = p.ns.Encode(map[string]string{"cmd": "help"}); err != nil {
		return nil, err
	}
	if p.aboutPayload, err = p.ns.Encode(map[string]string{"cmd": "about"}); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Greeter) Info() botkit.Info {
	return botkit.Info{
		Name:     "greet",
		Commands: []string{"start", "help", "info", "s", "h", "i"},
		Authors:  []string{"atombot"},
		About:    "Greetings and the command catalogue",
		Description: "Answers /start with a short introduction, lists every loaded plugin " +
			"under /help and shows one plugin's details under /info <command>. " +
			"s, h and i are shorthand for the three.",
	}
}

func (p *Greeter) Enabled() bool { return true }

func (p *Greeter) Namespace() *callbackdata.Namespace { return p.ns }

func (p *Greeter) OnCommand(ctx *botkit.Context, command string, args []string) error {
	switch canonical(command) {
	case "start":
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📖 Commands", p.helpPayload),
				tgbotapi.NewInlineKeyboardButtonData("ℹ️ About", p.aboutPayload),
			),
		)
		return ctx.ReplyWithKeyboard(welcome, kb)
	case "help":
		return ctx.ReplyMarkdown(helpText(ctx.Catalog()))
	case "info":
		if len(args) == 0 {
			return ctx.Reply("Usage: /info <command>, for example /info roll")
		}
		return ctx.ReplyMarkdown(infoText(ctx.Catalog(), args[0]))
	}
	return nil
}

func (p *Greeter) OnCallback(ctx *botkit.Context, values map[string]string) error {
	switch values["cmd"] {
	case "help":
		return ctx.ReplyMarkdown(helpText(ctx.Catalog()))
	case "about":
		return ctx.Reply(about)
	}
	return nil
}

func (p *Greeter) OnUnmatched(ctx *botkit.Context) error {
	if word, ok := commandWord(ctx.ArgText); ok {
		if match, found := closestCommand(ctx.Catalog(), word); found {
			return ctx.Reply(fmt.Sprintf("I do not know /%s. Did you mean /%s? /help lists everything I understand.", word, match))
		}
	}
	return ctx.Reply("I do not know what to do with that. /help lists everything I understand.")
}

func canonical(cmd string) string {
	switch cmd {
	case "s":
		return "start"
	case "h":
		return "help"
	case "i":
		return "info"
	}
	return cmd
}

// commandWord extracts the command token from text that looks like a slash
// command. Plain chatter yields no word.
func commandWord(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if i := strings.IndexByte(word, '@'); i >= 0 {
		word = word[:i]
	}
	return strings.ToLower(word), word != ""
}

// closestCommand fuzzy-matches word against every dispatchable command and
// returns the best hit.
func closestCommand(entries []botkit.CatalogEntry, word string) (string, bool) {
	var targets []string
	for _, e := range entries {
		if !e.Enabled {
			continue
		}
		targets = append(targets, e.Info.Commands...)
	}
	matches := fuzzy.Find(word, targets)
	if len(matches) == 0 {
		return "", false
	}
	return targets[matches[0].Index], true
}

func helpText(entries []botkit.CatalogEntry) string {
	var b strings.Builder
	b.WriteString("🤖 *Loaded plugins*\n\n")
	for _, e := range entries {
		if !e.Enabled {
			b.WriteString(fmt.Sprintf("*%s* — disabled\n\n", e.Info.Name))
			continue
		}
		b.WriteString(fmt.Sprintf("*%s* — %s\n", e.Info.Name, e.Info.About))
		for _, cmd := range e.Info.Commands {
			b.WriteString("/" + cmd + " ")
		}
		b.WriteString("\n\n")
	}
	b.WriteString("_/info <command> shows details._")
	return b.String()
}

func infoText(entries []botkit.CatalogEntry, query string) string {
	q := strings.ToLower(strings.TrimPrefix(query, "/"))
	for _, e := range entries {
		for _, cmd := range e.Info.Commands {
			if cmd != q {
				continue
			}
			var b strings.Builder
			b.WriteString(fmt.Sprintf("*%s*\n%s\n\n", e.Info.Name, e.Info.Description))
			b.WriteString("Commands: ")
			for _, c := range e.Info.Commands {
				b.WriteString("/" + c + " ")
			}
			b.WriteString("\nAuthors: " + strings.Join(e.Info.Authors, ", "))
			if !e.Enabled {
				b.WriteString("\n\nCurrently disabled.")
			}
			return b.String()
		}
	}
	if match, ok := closestCommand(entries, q); ok {
		return fmt.Sprintf("No plugin owns %q. Did you mean /info %s?", query, match)
	}
	return fmt.Sprintf("No plugin owns %q. /help lists what I have.", query)
}
