package layout

import (
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

// DefaultFullscreenKey is XF86 F11 on the common keymap.
const DefaultFullscreenKey = 95

// Fullscreen wraps an inner layout and, while engaged, gives the
// focused view the entire usable area. All other callbacks pass
// through to the inner layout.
type Fullscreen struct {
	inner     Layout
	env       Env
	toggleKey uint32
	engaged   entity.ViewRef
	focused   entity.ViewRef
	usable    geom.Rect
}

func NewFullscreen(env Env, inner Layout, toggleKey uint32) *Fullscreen {
	if toggleKey == 0 {
		toggleKey = DefaultFullscreenKey
	}
	return &Fullscreen{inner: inner, env: env, toggleKey: toggleKey}
}

func (l *Fullscreen) Kind() string      { return "fullscreen" }
func (l *Fullscreen) ManagedCount() int { return l.inner.ManagedCount() }
func (l *Fullscreen) Empty() bool       { return l.inner.Empty() }

func (l *Fullscreen) Engaged() bool { return !l.engaged.Zero() }

func (l *Fullscreen) ViewCreated(ref entity.ViewRef) bool {
	ok := l.inner.ViewCreated(ref)
	if ok {
		l.Arrange(l.usable)
	}
	return ok
}

func (l *Fullscreen) ViewDestroyed(ref entity.ViewRef) {
	if l.engaged == ref {
		l.engaged = entity.ViewRef{}
	}
	l.inner.ViewDestroyed(ref)
	l.Arrange(l.usable)
}

func (l *Fullscreen) ViewFocused(ref entity.ViewRef) {
	l.focused = ref
	if !l.engaged.Zero() && l.engaged != ref {
		// Focusing another view drops out of fullscreen.
		l.engaged = entity.ViewRef{}
		l.Arrange(l.usable)
	}
	l.inner.ViewFocused(ref)
}

func (l *Fullscreen) MoveRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	return l.inner.MoveRequested(ref, o, d)
}

func (l *Fullscreen) ResizeRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	return l.inner.ResizeRequested(ref, o, d, delta)
}

func (l *Fullscreen) NavigateRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) (entity.ViewRef, bool) {
	return l.inner.NavigateRequested(ref, o, d)
}

func (l *Fullscreen) Attached(output entity.OutputRef)   { l.inner.Attached(output) }
func (l *Fullscreen) Detached()                          { l.inner.Detached() }
func (l *Fullscreen) OutputResized(output entity.OutputRef) {
	l.inner.OutputResized(output)
}

func (l *Fullscreen) KeyPressed(ev KeyEvent) bool {
	if ev.Pressed && ev.Code == l.toggleKey {
		l.toggle()
		return true
	}
	return l.inner.KeyPressed(ev)
}

func (l *Fullscreen) PointerPressed(ev PointerEvent) bool { return l.inner.PointerPressed(ev) }
func (l *Fullscreen) TouchDown(ev TouchEvent) bool        { return l.inner.TouchDown(ev) }

func (l *Fullscreen) toggle() {
	if !l.engaged.Zero() {
		l.engaged = entity.ViewRef{}
	} else if l.env.Reg.View(l.focused) != nil {
		l.engaged = l.focused
	}
	l.Arrange(l.usable)
}

func (l *Fullscreen) Arrange(usable geom.Rect) {
	l.usable = usable

	v := l.env.Reg.View(l.engaged)
	if v == nil {
		l.engaged = entity.ViewRef{}
		l.inner.Arrange(usable)
		return
	}
	v.SetGeometry(usable)
	v.SetVisible(true)
}

func (l *Fullscreen) Snapshot() Snapshot {
	s := l.inner.Snapshot()
	return Snapshot{Kind: l.Kind(), Views: s.Views, Tree: s}
}
