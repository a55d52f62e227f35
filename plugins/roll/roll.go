// Package roll is a dice roller with a re-roll button.
package roll

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"atombot/internal/botkit"
	"atombot/internal/callbackdata"
)

func init() {
	botkit.RegisterFactory("roll", New)
}

const (
	maxCount = 20
	maxSides = 1000
)

type Roller struct {
	ns *callbackdata.Namespace
}

func New() (botkit.Plugin, error) {
	return &Roller{ns: callbackdata.MustNew("roll", "count", "sides")}, nil
}

func (p *Roller) Info() botkit.Info {
	return botkit.Info{
		Name:     "roll",
		Commands: []string{"roll"},
		Authors:  []string{"atombot"},
		About:    "Dice",
		Description: "/roll throws a six-sided die; /roll NdM throws N dice with M sides, " +
			"like /roll 3d20. The button under the result rolls the same dice again.",
	}
}

func (p *Roller) Enabled() bool { return true }

func (p *Roller) Namespace() *callbackdata.Namespace { return p.ns }

func (p *Roller) OnCommand(ctx *botkit.Context, _ string, _ []string) error {
	count, sides, err := parseSpec(ctx.ArgText)
	if err != nil {
		return ctx.Reply(err.Error() + "\nTry /roll or /roll 3d20.")
	}
	return p.sendRoll(ctx, count, sides, 0)
}

func (p *Roller) OnCallback(ctx *botkit.Context, values map[string]string) error {
	count, sides, err := parseValues(values)
	if err != nil {
		return err
	}
	return p.sendRoll(ctx, count, sides, ctx.Msg.MessageID)
}

// sendRoll posts the result, editing in place when the roll came from a
// re-roll button.
func (p *Roller) sendRoll(ctx *botkit.Context, count, sides, editID int) error {
	data, err := p.ns.Encode(map[string]string{
		"count": strconv.Itoa(count),
		"sides": strconv.Itoa(sides),
	})
	if err != nil {
		return err
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 Roll again", data),
		),
	)
	text := rollText(count, sides)
	if editID != 0 {
		return ctx.EditMessage(editID, text, &kb)
	}
	return ctx.ReplyWithKeyboard(text, kb)
}

func rollText(count, sides int) string {
	total := 0
	parts := make([]string, count)
	for i := range parts {
		r := rand.Intn(sides) + 1
		parts[i] = strconv.Itoa(r)
		total += r
	}
	if count == 1 {
		return fmt.Sprintf("🎲 d%d → *%d*", sides, total)
	}
	return fmt.Sprintf("🎲 %dd%d → %s = *%d*", count, sides, strings.Join(parts, " + "), total)
}

// parseSpec reads an NdM dice description. Empty input means one d6.
func parseSpec(s string) (count, sides int, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 1, 6, nil
	}
	countStr, sidesStr, found := strings.Cut(s, "d")
	if !found {
		return 0, 0, fmt.Errorf("cannot read %q as dice", s)
	}
	if countStr == "" {
		countStr = "1"
	}
	count, err = strconv.Atoi(countStr)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read %q as a dice count", countStr)
	}
	sides, err = strconv.Atoi(sidesStr)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot read %q as a side count", sidesStr)
	}
	return count, sides, checkBounds(count, sides)
}

func parseValues(values map[string]string) (count, sides int, err error) {
	count, err = strconv.Atoi(values["count"])
	if err != nil {
		return 0, 0, fmt.Errorf("bad count in payload: %w", err)
	}
	sides, err = strconv.Atoi(values["sides"])
	if err != nil {
		return 0, 0, fmt.Errorf("bad sides in payload: %w", err)
	}
	return count, sides, checkBounds(count, sides)
}

func checkBounds(count, sides int) error {
	if count < 1 || count > maxCount {
		return fmt.Errorf("dice count must be between 1 and %d", maxCount)
	}
	if sides < 2 || sides > maxSides {
		return fmt.Errorf("side count must be between 2 and %d", maxSides)
	}
	return nil
}
