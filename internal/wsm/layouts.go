package wsm

import (
	"fmt"

	"github.com/ItsNotGoodName/waytiler/internal/bsp"
	"github.com/ItsNotGoodName/waytiler/internal/config"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
)

// newLayout builds a layout from its config value. Composite kinds
// recurse; nil sub-configs default to bsp.
func newLayout(env layout.Env, cfg config.Layout, start geom.Orientation) (layout.Layout, error) {
	switch cfg.Kind {
	case "", "bsp":
		return bsp.New(env, start, cfg.ToggleKey), nil
	case "floating":
		return layout.NewFloating(env), nil
	case "deck":
		return layout.NewDeck(env), nil
	case "fullscreen":
		inner, err := newLayout(env, sub(cfg.Inner), start)
		if err != nil {
			return nil, fmt.Errorf("fullscreen inner: %w", err)
		}
		return layout.NewFullscreen(env, inner, cfg.ToggleKey), nil
	case "router":
		if cfg.Match == "" {
			return nil, fmt.Errorf("router: match is required")
		}
		matched, err := newLayout(env, sub(cfg.Matched), start)
		if err != nil {
			return nil, fmt.Errorf("router matched: %w", err)
		}
		rest, err := newLayout(env, sub(cfg.Rest), start)
		if err != nil {
			return nil, fmt.Errorf("router rest: %w", err)
		}
		return layout.NewRouter(env, layout.PrefixPredicate(cfg.Match), matched, rest, cfg.Ratio), nil
	default:
		return nil, fmt.Errorf("unknown layout kind %q", cfg.Kind)
	}
}

func sub(cfg *config.Layout) config.Layout {
	if cfg == nil {
		return config.Layout{Kind: "bsp"}
	}
	return *cfg
}
