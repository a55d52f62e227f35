// Package hostinfo surfaces the machine the bot runs on: /ping for
// liveness and /host for a hardware and OS summary.
package hostinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"atombot/internal/botkit"
	"atombot/internal/format"
)

func init() {
	botkit.RegisterFactory("hostinfo", New)
}

type HostInfo struct {
	started time.Time
}

func New() (botkit.Plugin, error) {
	return &HostInfo{started: time.Now()}, nil
}

func (p *HostInfo) Info() botkit.Info {
	return botkit.Info{
		Name:        "hostinfo",
		Commands:    []string{"ping", "host"},
		Authors:     []string{"atombot"},
		About:       "Liveness and host machine summary",
		Description: "/ping reports bot uptime; /host shows OS, CPU, RAM and load of the machine the bot runs on.",
	}
}

func (p *HostInfo) Enabled() bool { return true }

func (p *HostInfo) OnCommand(ctx *botkit.Context, command string, _ []string) error {
	if command == "ping" {
		return ctx.ReplyMarkdown(p.pingText())
	}
	return ctx.ReplyMarkdown(hostText())
}

func (p *HostInfo) pingText() string {
	now := time.Now()
	return fmt.Sprintf("🏓 *Pong!*\n\n*Bot uptime:* %s\n*Time:* %s",
		format.FormatDuration(now.Sub(p.started)),
		now.Format("15:04:05"))
}

func hostText() string {
	var b strings.Builder
	b.WriteString("🖥 *Host*\n\n")

	if h, err := host.Info(); err == nil {
		b.WriteString(fmt.Sprintf("*Hostname:* `%s`\n", h.Hostname))
		b.WriteString(fmt.Sprintf("*OS:* %s %s\n", h.Platform, h.PlatformVersion))
		b.WriteString(fmt.Sprintf("*Kernel:* %s (%s)\n", h.KernelVersion, h.KernelArch))
		b.WriteString(fmt.Sprintf("*Uptime:* %s\n", format.FormatUptime(h.Uptime)))
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		b.WriteString(fmt.Sprintf("\n*CPU:* %s\n", infos[0].ModelName))
		b.WriteString(fmt.Sprintf("*Cores:* %d physical, %d logical\n", infos[0].Cores, len(infos)))
	}

	if v, err := mem.VirtualMemory(); err == nil {
		b.WriteString(fmt.Sprintf("\n*RAM:* %s  `%.0f%%`\n", format.MakeProgressBar(v.UsedPercent), v.UsedPercent))
		b.WriteString(fmt.Sprintf("   ↳ %s used of %s\n", format.FormatBytes(v.Used), format.FormatBytes(v.Total)))
	}

	if avg, err := load.Avg(); err == nil {
		b.WriteString(fmt.Sprintf("*Load:* %.2f %.2f %.2f\n", avg.Load1, avg.Load5, avg.Load15))
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		b.WriteString(fmt.Sprintf("\n*Go:* %s\n", bi.GoVersion))
	}

	return b.String()
}
