package botkit

import (
	"fmt"
	"log/slog"
	"strings"

	"atombot/internal/callbackdata"
)

type commandBinding struct {
	plugin Plugin
	name   string
}

type callbackBinding struct {
	plugin CallbackPlugin
	ns     *callbackdata.Namespace
	name   string
}

// Registry maps commands and callback prefixes to their owning plugins.
// Registration happens once at startup, before dispatch begins; lookups are
// read-only after that.
type Registry struct {
	entries  []CatalogEntry
	commands map[string]*commandBinding
	prefixes map[string]*callbackBinding
	catchall Catchall
	catchOwn string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*commandBinding),
		prefixes: make(map[string]*callbackBinding),
	}
}

// Register validates and binds a plugin. Validation runs over the whole
// descriptor before anything is committed, so a collision leaves the
// registry exactly as it was. A disabled plugin is catalogued but gets no
// bindings.
func (r *Registry) Register(p Plugin) error {
	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("plugin with commands %v has no name", info.Commands)
	}
	if len(info.Commands) == 0 {
		return fmt.Errorf("plugin %q declares no commands", info.Name)
	}

	if !p.Enabled() {
		r.entries = append(r.entries, CatalogEntry{Info: info, Enabled: false})
		slog.Info("Plugin disabled, excluded from dispatch", "plugin", info.Name)
		return nil
	}

	commands := make([]string, 0, len(info.Commands))
	seen := make(map[string]bool, len(info.Commands))
	for _, raw := range info.Commands {
		cmd := strings.ToLower(strings.TrimSpace(raw))
		if cmd == "" || strings.ContainsAny(cmd, "/ \t@") {
			return fmt.Errorf("plugin %q declares invalid command %q", info.Name, raw)
		}
		if seen[cmd] {
			return &DuplicateCommandError{Command: cmd, Existing: info.Name, Incoming: info.Name}
		}
		seen[cmd] = true
		if owner, taken := r.commands[cmd]; taken {
			return &DuplicateCommandError{Command: cmd, Existing: owner.name, Incoming: info.Name}
		}
		commands = append(commands, cmd)
	}

	var ns *callbackdata.Namespace
	cp, wantsCallbacks := p.(CallbackPlugin)
	if wantsCallbacks {
		ns = cp.Namespace()
		if ns == nil {
			return fmt.Errorf("plugin %q handles callbacks but declares no namespace", info.Name)
		}
		if owner, taken := r.prefixes[ns.Prefix()]; taken {
			return &DuplicatePrefixError{Prefix: ns.Prefix(), Existing: owner.name, Incoming: info.Name}
		}
	}

	ca, wantsCatchall := p.(Catchall)
	if wantsCatchall && r.catchall != nil {
		return fmt.Errorf("catch-all already owned by plugin %q, refused for plugin %q", r.catchOwn, info.Name)
	}

	// All checks passed: commit.
	for _, cmd := range commands {
		r.commands[cmd] = &commandBinding{plugin: p, name: info.Name}
	}
	if wantsCallbacks {
		r.prefixes[ns.Prefix()] = &callbackBinding{plugin: cp, ns: ns, name: info.Name}
	}
	if wantsCatchall {
		r.catchall = ca
		r.catchOwn = info.Name
	}
	r.entries = append(r.entries, CatalogEntry{Info: info, Enabled: true})

	slog.Debug("Plugin registered", "plugin", info.Name, "commands", strings.Join(commands, ","))
	return nil
}

// lookup resolves a command word, case-insensitively.
func (r *Registry) lookup(command string) (*commandBinding, bool) {
	b, ok := r.commands[strings.ToLower(command)]
	return b, ok
}

// callbackOwner resolves a callback payload prefix.
func (r *Registry) callbackOwner(prefix string) (*callbackBinding, bool) {
	b, ok := r.prefixes[prefix]
	return b, ok
}

// Catchall returns the registered catch-all plugin, if any.
func (r *Registry) Catchall() (Catchall, string, bool) {
	if r.catchall == nil {
		return nil, "", false
	}
	return r.catchall, r.catchOwn, true
}

// Catalog lists every registered plugin in registration order, disabled
// ones included.
func (r *Registry) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// CommandCount reports how many command words are bound.
func (r *Registry) CommandCount() int {
	return len(r.commands)
}
