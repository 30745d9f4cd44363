package wsm

import (
	"log/slog"
	"testing"

	"github.com/ItsNotGoodName/waytiler/internal/config"
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() layout.Env {
	return layout.Env{Log: slog.Default(), Reg: entity.NewRegistry(slog.Default())}
}

func TestNewLayoutKinds(t *testing.T) {
	for _, tt := range []struct {
		cfg  config.Layout
		kind string
	}{
		{config.Layout{}, "bsp"},
		{config.Layout{Kind: "bsp"}, "bsp"},
		{config.Layout{Kind: "floating"}, "floating"},
		{config.Layout{Kind: "deck"}, "deck"},
		{config.Layout{Kind: "fullscreen"}, "fullscreen"},
		{config.Layout{Kind: "router", Match: "term:"}, "router"},
	} {
		lay, err := newLayout(testEnv(), tt.cfg, geom.Horizontal)
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.kind, lay.Kind())
	}
}

func TestNewLayoutComposite(t *testing.T) {
	lay, err := newLayout(testEnv(), config.Layout{
		Kind:  "fullscreen",
		Inner: &config.Layout{Kind: "deck"},
	}, geom.Horizontal)
	require.NoError(t, err)
	assert.Equal(t, "fullscreen", lay.Kind())

	lay, err = newLayout(testEnv(), config.Layout{
		Kind:    "router",
		Match:   "term:",
		Matched: &config.Layout{Kind: "deck"},
		Rest:    &config.Layout{Kind: "floating"},
	}, geom.Horizontal)
	require.NoError(t, err)
	assert.Equal(t, "router", lay.Kind())
}

func TestNewLayoutErrors(t *testing.T) {
	_, err := newLayout(testEnv(), config.Layout{Kind: "mosaic"}, geom.Horizontal)
	assert.ErrorContains(t, err, "unknown layout kind")

	_, err = newLayout(testEnv(), config.Layout{Kind: "router"}, geom.Horizontal)
	assert.ErrorContains(t, err, "match is required")

	_, err = newLayout(testEnv(), config.Layout{
		Kind:  "fullscreen",
		Inner: &config.Layout{Kind: "nope"},
	}, geom.Horizontal)
	assert.ErrorContains(t, err, "fullscreen inner")
}
