package layout

import (
	"strings"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

// Predicate decides which side of a Router a view belongs to.
type Predicate func(v *entity.View) bool

// PrefixPredicate matches views whose name starts with prefix.
func PrefixPredicate(prefix string) Predicate {
	return func(v *entity.View) bool {
		return strings.HasPrefix(v.Name(), prefix)
	}
}

// Router sends each view to one of two inner layouts based on a
// predicate evaluated once at creation. When both sides hold views the
// usable area is split between them, otherwise the occupied side gets
// all of it.
type Router struct {
	Base

	env     Env
	match   Predicate
	matched Layout
	rest    Layout
	side    map[entity.ViewRef]Layout
	ratio   float64
	usable  geom.Rect
}

func NewRouter(env Env, match Predicate, matched, rest Layout, ratio float64) *Router {
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	return &Router{
		env:     env,
		match:   match,
		matched: matched,
		rest:    rest,
		side:    make(map[entity.ViewRef]Layout),
		ratio:   ratio,
	}
}

func (l *Router) Kind() string { return "router" }

func (l *Router) ManagedCount() int {
	return l.matched.ManagedCount() + l.rest.ManagedCount()
}

func (l *Router) Empty() bool {
	return l.matched.Empty() && l.rest.Empty()
}

// forView returns the inner layout managing the view, defaulting to
// the rest side for unknown refs.
func (l *Router) forView(ref entity.ViewRef) Layout {
	if inner, ok := l.side[ref]; ok {
		return inner
	}
	return l.rest
}

func (l *Router) ViewCreated(ref entity.ViewRef) bool {
	v := l.env.Reg.View(ref)
	if v == nil {
		return false
	}

	inner := l.rest
	if l.match != nil && l.match(v) {
		inner = l.matched
	}
	if !inner.ViewCreated(ref) {
		return false
	}
	l.side[ref] = inner
	l.Arrange(l.usable)
	return true
}

func (l *Router) ViewDestroyed(ref entity.ViewRef) {
	l.forView(ref).ViewDestroyed(ref)
	delete(l.side, ref)
	l.Arrange(l.usable)
}

func (l *Router) ViewFocused(ref entity.ViewRef) {
	l.forView(ref).ViewFocused(ref)
}

func (l *Router) MoveRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	return l.forView(ref).MoveRequested(ref, o, d)
}

func (l *Router) ResizeRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	return l.forView(ref).ResizeRequested(ref, o, d, delta)
}

func (l *Router) NavigateRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) (entity.ViewRef, bool) {
	return l.forView(ref).NavigateRequested(ref, o, d)
}

func (l *Router) Attached(output entity.OutputRef) {
	l.matched.Attached(output)
	l.rest.Attached(output)
}

func (l *Router) Detached() {
	l.matched.Detached()
	l.rest.Detached()
}

func (l *Router) OutputResized(output entity.OutputRef) {
	l.matched.OutputResized(output)
	l.rest.OutputResized(output)
}

func (l *Router) KeyPressed(ev KeyEvent) bool {
	return l.matched.KeyPressed(ev) || l.rest.KeyPressed(ev)
}

func (l *Router) PointerPressed(ev PointerEvent) bool {
	return l.matched.PointerPressed(ev) || l.rest.PointerPressed(ev)
}

func (l *Router) TouchDown(ev TouchEvent) bool {
	return l.matched.TouchDown(ev) || l.rest.TouchDown(ev)
}

func (l *Router) Arrange(usable geom.Rect) {
	l.usable = usable

	switch {
	case l.matched.Empty() && l.rest.Empty():
	case l.matched.Empty():
		l.rest.Arrange(usable)
	case l.rest.Empty():
		l.matched.Arrange(usable)
	default:
		a, b := usable.Split(geom.Horizontal, l.ratio)
		l.matched.Arrange(a)
		l.rest.Arrange(b)
	}
}

func (l *Router) Snapshot() Snapshot {
	return Snapshot{
		Kind: l.Kind(),
		Tree: []Snapshot{l.matched.Snapshot(), l.rest.Snapshot()},
	}
}
