package config

import (
	"log/slog"
	"testing"

	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSeedsDefault(t *testing.T) {
	store, err := NewStore(&Memory{})
	require.NoError(t, err)

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "horizontal", cfg.Orientation)
	require.Len(t, cfg.Workspaces, 1)
	assert.True(t, cfg.Workspaces[0].Default)

	err = store.UpdateConfig(func(cfg Config) (Config, error) {
		cfg.Orientation = "vertical"
		return cfg, nil
	})
	require.NoError(t, err)

	cfg, err = store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "vertical", cfg.Orientation)
}

func TestStartOrientation(t *testing.T) {
	assert.Equal(t, geom.Vertical, Config{Orientation: "vertical"}.StartOrientation())
	assert.Equal(t, geom.Horizontal, Config{Orientation: "horizontal"}.StartOrientation())
	assert.Equal(t, geom.Horizontal, Config{}.StartOrientation())
}

func TestNormalizeDuplicatesFirstWins(t *testing.T) {
	cfg := Config{Workspaces: []Workspace{
		{Number: 1, Name: "first", Layout: Layout{Kind: "deck"}},
		{Number: 1, Name: "second"},
		{Number: 0},
		{Number: 33},
		{Default: true, Name: "tpl"},
		{Default: true, Name: "tpl2"},
	}}.Normalize(slog.Default())

	require.Len(t, cfg.Workspaces, 2)
	assert.Equal(t, "first", cfg.Workspaces[0].Name)
	assert.Equal(t, "deck", cfg.Workspaces[0].Layout.Kind)
	assert.Equal(t, "tpl", cfg.Workspaces[1].Name)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := Config{Workspaces: []Workspace{{Number: 3}}}.Normalize(slog.Default())

	require.Len(t, cfg.Workspaces, 2)
	assert.Equal(t, "3", cfg.Workspaces[0].Name)
	assert.Equal(t, "bsp", cfg.Workspaces[0].Layout.Kind)

	// A default template is always present afterwards.
	assert.True(t, cfg.Workspaces[1].Default)
	assert.Equal(t, "default", cfg.Workspaces[1].Name)
}

func TestWorkspaceFor(t *testing.T) {
	cfg := Config{Workspaces: []Workspace{
		{Number: 2, Name: "mail", Layout: Layout{Kind: "deck"}},
		{Default: true, Layout: Layout{Kind: "bsp"}},
	}}

	ws, ok := cfg.WorkspaceFor(2)
	require.True(t, ok)
	assert.Equal(t, "mail", ws.Name)

	// Template entries take the requested number and a numeric name.
	ws, ok = cfg.WorkspaceFor(7)
	require.True(t, ok)
	assert.Equal(t, 7, ws.Number)
	assert.Equal(t, "7", ws.Name)
	assert.Equal(t, "bsp", ws.Layout.Kind)

	_, ok = Config{}.WorkspaceFor(1)
	assert.False(t, ok)
}

func TestGenericAliasesDefault(t *testing.T) {
	cfg := Config{Workspaces: []Workspace{
		{Generic: true, Layout: Layout{Kind: "deck"}},
	}}

	// A generic entry is the template: it serves unnumbered lookups and
	// Normalize does not add a second template alongside it.
	ws, ok := cfg.WorkspaceFor(5)
	require.True(t, ok)
	assert.Equal(t, 5, ws.Number)
	assert.Equal(t, "deck", ws.Layout.Kind)

	norm := cfg.Normalize(slog.Default())
	require.Len(t, norm.Workspaces, 1)
	assert.Equal(t, "default", norm.Workspaces[0].Name)
}

func TestResolveBindings(t *testing.T) {
	kbs, err := ResolveBindings([]Binding{
		{Key: 10, Mods: 4, Action: "navigate", Direction: "left"},
		{Key: 11, Mods: 4, Action: "move", Direction: "down"},
		{Key: 12, Mods: 4, Action: "resize", Direction: "right", Delta: 0.1},
		{Key: 13, Mods: 4, Action: "switch-workspace", Workspace: 2},
		{Key: 14, Mods: 4, Action: "move-to-workspace", Workspace: 32},
	})
	require.NoError(t, err)
	require.Len(t, kbs, 5)

	assert.Equal(t, Keybind{Key: 10, Mods: 4, Action: ActionNavigate, Orientation: geom.Horizontal, Direction: geom.Backward, Delta: defaultResizeDelta}, kbs[0])
	assert.Equal(t, ActionMove, kbs[1].Action)
	assert.Equal(t, geom.Vertical, kbs[1].Orientation)
	assert.Equal(t, geom.Forward, kbs[1].Direction)
	assert.Equal(t, 0.1, kbs[2].Delta)
	assert.Equal(t, uint8(2), kbs[3].Workspace)
	assert.Equal(t, uint8(32), kbs[4].Workspace)
}

func TestResolveBindingsErrors(t *testing.T) {
	_, err := ResolveBindings([]Binding{{Action: "fly"}})
	assert.ErrorContains(t, err, "unknown action")

	_, err = ResolveBindings([]Binding{{Action: "navigate", Direction: "sideways"}})
	assert.ErrorContains(t, err, "unknown direction")

	_, err = ResolveBindings([]Binding{{Action: "switch-workspace", Workspace: 0}})
	assert.ErrorContains(t, err, "out of range")

	_, err = ResolveBindings([]Binding{{Action: "move-to-workspace", Workspace: 33}})
	assert.ErrorContains(t, err, "out of range")
}

func TestYAMLDriverRoundTrip(t *testing.T) {
	driver := NewYAML(t.TempDir() + "/config.yaml")

	exists, err := driver.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	store, err := NewStore(driver)
	require.NoError(t, err)

	exists, err = driver.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.UpdateConfig(func(cfg Config) (Config, error) {
		cfg.Workspaces = append(cfg.Workspaces, Workspace{Number: 2, Name: "mail", Layout: Layout{Kind: "deck"}})
		return cfg, nil
	}))

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Workspaces, 2)
	assert.Equal(t, "mail", cfg.Workspaces[1].Name)
}
