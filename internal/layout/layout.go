// Package layout defines the capability interface every layout
// algorithm implements, plus the non-tree layouts. A workspace holds
// exactly one Layout and forwards events to it without knowing which
// concrete algorithm is behind the interface.
package layout

import (
	"log/slog"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

// InsetsKey is the Store entry the compositor's chrome layer writes
// per-view usable-geometry insets under. Missing entries mean zero.
const InsetsKey entity.Key = "layout.insets"

// Env is what every layout gets at construction. The logger is passed
// explicitly, layouts must not reach for a process-wide one.
type Env struct {
	Log *slog.Logger
	Reg *entity.Registry
}

type KeyEvent struct {
	Code      uint32
	Pressed   bool
	Modifiers uint32
}

type PointerEvent struct {
	X       float64
	Y       float64
	Button  uint32
	Pressed bool
}

type TouchEvent struct {
	X  float64
	Y  float64
	ID int32
}

// Snapshot is a JSON-friendly description of a layout's current state,
// used by the debug API and tests.
type Snapshot struct {
	Kind  string   `json:"kind"`
	Views []string `json:"views,omitempty"`
	Tree  any      `json:"tree,omitempty"`
}

// Layout is the capability interface. Callbacks a layout does not care
// about come from Base and report not-handled; the workspace and the
// multiplexer never special-case a concrete layout type.
type Layout interface {
	Kind() string
	ManagedCount() int
	Empty() bool

	// ViewCreated inserts a view. False means the layout rejected it.
	ViewCreated(view entity.ViewRef) bool
	// ViewDestroyed removes a view. Removing an unmanaged view is a no-op.
	ViewDestroyed(view entity.ViewRef)
	ViewFocused(view entity.ViewRef)

	MoveRequested(view entity.ViewRef, o geom.Orientation, d geom.Direction) bool
	ResizeRequested(view entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool
	// NavigateRequested resolves the view that directional focus
	// movement should land on. False means no target.
	NavigateRequested(view entity.ViewRef, o geom.Orientation, d geom.Direction) (entity.ViewRef, bool)

	// Attached and Detached bracket the time the owning workspace is
	// bound to an output.
	Attached(output entity.OutputRef)
	Detached()
	OutputResized(output entity.OutputRef)

	KeyPressed(ev KeyEvent) bool
	PointerPressed(ev PointerEvent) bool
	TouchDown(ev TouchEvent) bool

	// Arrange recomputes and writes view geometry for the usable area.
	Arrange(usable geom.Rect)

	Snapshot() Snapshot
}

// Base provides the documented do-nothing defaults. Concrete layouts
// embed it and override what they handle.
type Base struct{}

func (Base) Kind() string                                { return "" }
func (Base) ManagedCount() int                           { return 0 }
func (Base) Empty() bool                                 { return true }
func (Base) ViewCreated(entity.ViewRef) bool             { return false }
func (Base) ViewDestroyed(entity.ViewRef)                {}
func (Base) ViewFocused(entity.ViewRef)                  {}
func (Base) Attached(entity.OutputRef)                   {}
func (Base) Detached()                                   {}
func (Base) OutputResized(entity.OutputRef)              {}
func (Base) KeyPressed(KeyEvent) bool                    { return false }
func (Base) PointerPressed(PointerEvent) bool            { return false }
func (Base) TouchDown(TouchEvent) bool                   { return false }
func (Base) Arrange(geom.Rect)                           {}
func (Base) Snapshot() Snapshot                          { return Snapshot{} }
func (Base) MoveRequested(entity.ViewRef, geom.Orientation, geom.Direction) bool {
	return false
}
func (Base) ResizeRequested(entity.ViewRef, geom.Orientation, geom.Direction, float64) bool {
	return false
}
func (Base) NavigateRequested(entity.ViewRef, geom.Orientation, geom.Direction) (entity.ViewRef, bool) {
	return entity.ViewRef{}, false
}
