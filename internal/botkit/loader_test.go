package botkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapFactories replaces the process-wide factory table for one test.
func swapFactories(t *testing.T, repl map[string]Factory) {
	t.Helper()
	factoriesMu.Lock()
	prev := factories
	factories = repl
	factoriesMu.Unlock()
	t.Cleanup(func() {
		factoriesMu.Lock()
		factories = prev
		factoriesMu.Unlock()
	})
}

func goodFactory(name string) Factory {
	return func() (Plugin, error) {
		return newPlugin(name, name), nil
	}
}

func TestLoadAllSortedByName(t *testing.T) {
	swapFactories(t, map[string]Factory{
		"zulu":  goodFactory("zulu"),
		"alpha": goodFactory("alpha"),
		"mike":  goodFactory("mike"),
	})

	plugins := LoadAll()

	require.Len(t, plugins, 3)
	var names []string
	for _, p := range plugins {
		names = append(names, p.Info().Name)
	}
	assert.Equal(t, []string{"alpha", "mike", "zulu"}, names)
}

func TestLoadAllSkipsFailingFactory(t *testing.T) {
	swapFactories(t, map[string]Factory{
		"broken": func() (Plugin, error) { return nil, errors.New("missing credentials") },
		"fine":   goodFactory("fine"),
	})

	plugins := LoadAll()

	require.Len(t, plugins, 1)
	assert.Equal(t, "fine", plugins[0].Info().Name)
}

func TestLoadAllSkipsPanickingFactory(t *testing.T) {
	swapFactories(t, map[string]Factory{
		"bomb": func() (Plugin, error) { panic("init order dependency") },
		"fine": goodFactory("fine"),
	})

	plugins := LoadAll()

	require.Len(t, plugins, 1)
	assert.Equal(t, "fine", plugins[0].Info().Name)
}

func TestLoadAllSkipsNilPlugin(t *testing.T) {
	swapFactories(t, map[string]Factory{
		"empty": func() (Plugin, error) { return nil, nil },
		"fine":  goodFactory("fine"),
	})

	plugins := LoadAll()

	require.Len(t, plugins, 1)
	assert.Equal(t, "fine", plugins[0].Info().Name)
}

func TestRegisterFactoryRejectsDuplicates(t *testing.T) {
	swapFactories(t, map[string]Factory{})

	RegisterFactory("echo", goodFactory("echo"))
	assert.Panics(t, func() { RegisterFactory("echo", goodFactory("echo")) })
}

func TestRegisterFactoryRejectsNil(t *testing.T) {
	swapFactories(t, map[string]Factory{})

	assert.Panics(t, func() { RegisterFactory("ghost", nil) })
}
