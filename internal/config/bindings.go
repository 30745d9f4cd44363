package config

import (
	"fmt"

	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

type Action uint8

const (
	ActionNone Action = iota
	ActionNavigate
	ActionMove
	ActionResize
	ActionSwitchWorkspace
	ActionMoveToWorkspace
)

// Keybind is a binding with its action resolved to enum values; the
// core never sees raw strings.
type Keybind struct {
	Key         uint32
	Mods        uint32
	Action      Action
	Orientation geom.Orientation
	Direction   geom.Direction
	Workspace   uint8
	Delta       float64
}

const defaultResizeDelta = 0.05

// ResolveBindings turns the config's string bindings into Keybinds,
// rejecting the whole set on the first malformed entry.
func ResolveBindings(bindings []Binding) ([]Keybind, error) {
	out := make([]Keybind, 0, len(bindings))
	for i, b := range bindings {
		kb := Keybind{Key: b.Key, Mods: b.Mods, Delta: b.Delta}
		if kb.Delta == 0 {
			kb.Delta = defaultResizeDelta
		}

		switch b.Action {
		case "navigate":
			kb.Action = ActionNavigate
		case "move":
			kb.Action = ActionMove
		case "resize":
			kb.Action = ActionResize
		case "switch-workspace":
			kb.Action = ActionSwitchWorkspace
		case "move-to-workspace":
			kb.Action = ActionMoveToWorkspace
		default:
			return nil, fmt.Errorf("bindings[%d]: unknown action %q", i, b.Action)
		}

		switch kb.Action {
		case ActionNavigate, ActionMove, ActionResize:
			switch b.Direction {
			case "left":
				kb.Orientation, kb.Direction = geom.Horizontal, geom.Backward
			case "right":
				kb.Orientation, kb.Direction = geom.Horizontal, geom.Forward
			case "up":
				kb.Orientation, kb.Direction = geom.Vertical, geom.Backward
			case "down":
				kb.Orientation, kb.Direction = geom.Vertical, geom.Forward
			default:
				return nil, fmt.Errorf("bindings[%d]: unknown direction %q", i, b.Direction)
			}
		case ActionSwitchWorkspace, ActionMoveToWorkspace:
			if b.Workspace < 1 || b.Workspace > 32 {
				return nil, fmt.Errorf("bindings[%d]: workspace %d out of range", i, b.Workspace)
			}
			kb.Workspace = uint8(b.Workspace)
		}

		out = append(out, kb)
	}
	return out, nil
}
