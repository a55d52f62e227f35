package botkit

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Factory builds one plugin instance. Factories run at startup, inside the
// loader's isolation boundary: returning an error (or panicking) skips that
// plugin and nothing else.
type Factory func() (Plugin, error)

var (
	factoriesMu sync.Mutex
	factories   = make(map[string]Factory)
)

// RegisterFactory records a plugin factory under its name. Plugin packages
// call it from init, the way database/sql drivers register themselves;
// the plugin manifest's blank imports pull them in. Registering the same
// name twice is a programmer error and panics.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if f == nil {
		panic("botkit: RegisterFactory with nil factory for plugin " + name)
	}
	if _, dup := factories[name]; dup {
		panic("botkit: RegisterFactory called twice for plugin " + name)
	}
	factories[name] = f
}

// LoadAll instantiates every registered factory in name order. A factory
// failure is logged and skipped; the rest still load.
func LoadAll() []Plugin {
	factoriesMu.Lock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	snapshot := make(map[string]Factory, len(factories))
	for name, f := range factories {
		snapshot[name] = f
	}
	factoriesMu.Unlock()
	sort.Strings(names)

	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		p, err := loadOne(name, snapshot[name])
		if err != nil {
			slog.Error("Plugin failed to load, skipping", "plugin", name, "err", err)
			continue
		}
		plugins = append(plugins, p)
	}

	slog.Info("Plugins loaded", "loaded", len(plugins), "discovered", len(names))
	return plugins
}

func loadOne(name string, f Factory) (p Plugin, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()
	p, err = f()
	if err == nil && p == nil {
		err = fmt.Errorf("factory for %q returned no plugin", name)
	}
	return p, err
}
