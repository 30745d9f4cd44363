package config

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

var defaultConfig = Config{
	Orientation: "horizontal",
	Workspaces: []Workspace{
		{Default: true, Name: "default", Layout: Layout{Kind: "bsp"}},
	},
	Bindings: []Binding{},
	HTTP:     HTTP{Host: "127.0.0.1", Port: 8080},
}

type Config struct {
	Orientation string      `json:"orientation" yaml:"orientation"`
	Workspaces  []Workspace `json:"workspaces" yaml:"workspaces"`
	Bindings    []Binding   `json:"bindings" yaml:"bindings"`
	HTTP        HTTP        `json:"http" yaml:"http"`
	Preview     Preview     `json:"preview" yaml:"preview"`
}

type HTTP struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type Preview struct {
	Enable bool      `json:"enable" yaml:"enable"`
	Views  []Stream  `json:"views" yaml:"views"`
}

// Stream is a synthetic view the preview creates at startup.
type Stream struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

// Workspace configures one workspace number, or, when Default is set,
// the template used for numbers without an explicit entry. Generic is
// an accepted alias for Default.
type Workspace struct {
	Number  int    `json:"number" yaml:"number"`
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default" yaml:"default"`
	Generic bool   `json:"generic" yaml:"generic"`
	Layout  Layout `json:"layout" yaml:"layout"`
}

func (w Workspace) template() bool { return w.Default || w.Generic }

// Layout names a layout algorithm and its parameters. Inner belongs to
// fullscreen; Match/Matched/Rest/Ratio to router.
type Layout struct {
	Kind      string  `json:"kind" yaml:"kind"`
	ToggleKey uint32  `json:"toggle_key" yaml:"toggle_key"`
	Inner     *Layout `json:"inner" yaml:"inner"`
	Match     string  `json:"match" yaml:"match"`
	Matched   *Layout `json:"matched" yaml:"matched"`
	Rest      *Layout `json:"rest" yaml:"rest"`
	Ratio     float64 `json:"ratio" yaml:"ratio"`
}

type Binding struct {
	Key       uint32  `json:"key" yaml:"key"`
	Mods      uint32  `json:"mods" yaml:"mods"`
	Action    string  `json:"action" yaml:"action"`
	Direction string  `json:"direction" yaml:"direction"`
	Workspace int     `json:"workspace" yaml:"workspace"`
	Delta     float64 `json:"delta" yaml:"delta"`
}

// StartOrientation resolves the configured starting split orientation.
func (c Config) StartOrientation() geom.Orientation {
	if c.Orientation == "vertical" {
		return geom.Vertical
	}
	return geom.Horizontal
}

// WorkspaceFor returns the entry for a workspace number, falling back
// to the default template. False when neither exists.
func (c Config) WorkspaceFor(num uint8) (Workspace, bool) {
	for _, ws := range c.Workspaces {
		if !ws.template() && ws.Number == int(num) {
			return ws, true
		}
	}
	for _, ws := range c.Workspaces {
		if ws.template() {
			ws.Number = int(num)
			ws.Name = fmt.Sprintf("%d", num)
			return ws, true
		}
	}
	return Workspace{}, false
}

// Normalize validates the config: duplicate explicit entries for one
// number keep the first and log the rest, out-of-range numbers are
// dropped, missing names and layouts get defaults, and a default
// template is guaranteed to exist.
func (c Config) Normalize(log *slog.Logger) Config {
	seen := map[int]bool{}
	seenDefault := false
	var out []Workspace
	for _, ws := range c.Workspaces {
		if ws.template() {
			if seenDefault {
				log.Warn("Duplicate default workspace config, first wins")
				continue
			}
			seenDefault = true
		} else {
			if ws.Number < 1 || ws.Number > 32 {
				log.Warn("Workspace number out of range, dropped", "number", ws.Number)
				continue
			}
			if seen[ws.Number] {
				log.Warn("Duplicate workspace config, first wins", "number", ws.Number)
				continue
			}
			seen[ws.Number] = true
		}

		if ws.Name == "" {
			if ws.template() {
				ws.Name = "default"
			} else {
				ws.Name = fmt.Sprintf("%d", ws.Number)
			}
		}
		if ws.Layout.Kind == "" {
			ws.Layout.Kind = "bsp"
		}
		out = append(out, ws)
	}
	if !seenDefault {
		out = append(out, Workspace{Default: true, Name: "default", Layout: Layout{Kind: "bsp"}})
	}

	c.Workspaces = out
	return c
}
