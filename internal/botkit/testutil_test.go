package botkit

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/callbackdata"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID, Chat: &tgbotapi.Chat{ID: 1}}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{}, nil
}

// sentTexts flattens everything the fake saw into message texts.
func (b *fakeBot) sentTexts() []string {
	var out []string
	for _, c := range b.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

// commandMessage builds a message whose first token is a bot command, with
// the entity Telegram clients attach.
func commandMessage(chatID int64, text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return &tgbotapi.Message{
		MessageID: 100,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 100,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: chatID},
	}
}

func callbackQuery(chatID int64, payload string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cbq",
		Data:    payload,
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 50, Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

// testPlugin is a minimal recording plugin for registry and dispatch tests.
type testPlugin struct {
	info     Info
	disabled bool

	calls      int
	gotCommand string
	gotArgs    []string
	execute    func(ctx *Context, command string, args []string) error
}

func (p *testPlugin) Info() Info    { return p.info }
func (p *testPlugin) Enabled() bool { return !p.disabled }

func (p *testPlugin) OnCommand(ctx *Context, command string, args []string) error {
	p.calls++
	p.gotCommand = command
	p.gotArgs = args
	if p.execute != nil {
		return p.execute(ctx, command, args)
	}
	return nil
}

// testCallbackPlugin adds a callback namespace on top of testPlugin.
type testCallbackPlugin struct {
	testPlugin
	ns *callbackdata.Namespace

	callbackCalls int
	gotValues     map[string]string
	onCallback    func(ctx *Context, values map[string]string) error
}

func (p *testCallbackPlugin) Namespace() *callbackdata.Namespace { return p.ns }

func (p *testCallbackPlugin) OnCallback(ctx *Context, values map[string]string) error {
	p.callbackCalls++
	p.gotValues = values
	if p.onCallback != nil {
		return p.onCallback(ctx, values)
	}
	return nil
}

// testCatchall adds the catch-all hook on top of testPlugin.
type testCatchall struct {
	testPlugin

	unmatchedCalls int
	gotText        string
}

func (p *testCatchall) OnUnmatched(ctx *Context) error {
	p.unmatchedCalls++
	p.gotText = ctx.ArgText
	return nil
}

func newPlugin(name string, commands ...string) *testPlugin {
	return &testPlugin{info: Info{
		Name:        name,
		Commands:    commands,
		Authors:     []string{"tests"},
		About:       name + " test plugin",
		Description: "fixture for " + name,
	}}
}
