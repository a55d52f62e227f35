// Package botkit is the plugin-dispatch core of the bot: the plugin
// contract, the factory loader, the command registry and dispatcher, and the
// per-chat conversation store. Plugins declare what they own; botkit decides
// where every incoming update goes.
package botkit

import (
	"atombot/internal/callbackdata"
)

// Info is the static metadata a plugin exposes. Name identifies the plugin
// in logs and the catalog; Commands are the slash commands it owns, written
// lowercase without the leading slash.
type Info struct {
	Name        string
	Commands    []string
	Authors     []string
	About       string
	Description string
}

// Plugin is the contract every command module implements.
type Plugin interface {
	Info() Info
	// Enabled reports whether the plugin should be bound for dispatch.
	// Plugins missing required configuration return false and stay loaded
	// but inert.
	Enabled() bool
	// OnCommand handles one of the plugin's declared commands. args is the
	// whitespace-split remainder of the message; ctx.ArgText has it unsplit.
	OnCommand(ctx *Context, command string, args []string) error
}

// CallbackPlugin is implemented by plugins that show inline buttons. The
// namespace's prefix must be unique across the registry.
type CallbackPlugin interface {
	Plugin
	Namespace() *callbackdata.Namespace
	OnCallback(ctx *Context, values map[string]string) error
}

// Catchall is implemented by at most one plugin. It receives commands no
// plugin owns and plain text no armed conversation intercepted.
type Catchall interface {
	Plugin
	OnUnmatched(ctx *Context) error
}

// CatalogEntry describes one registered plugin to others, /help style.
type CatalogEntry struct {
	Info    Info
	Enabled bool
}
