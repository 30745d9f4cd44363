package bsp

import (
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
)

// DefaultToggleKey is XF86 'e' on the common keymap, matching the
// usual split-toggle binding.
const DefaultToggleKey = 26

// BSP is the binary-split-tree layout. New views split the tiling
// root, the most recently focused leaf, along the current next
// orientation.
type BSP struct {
	layout.Base

	env        layout.Env
	tree       *Tree
	tilingRoot entity.ViewRef
	next       geom.Orientation
	toggleKey  uint32
	usable     geom.Rect
}

func New(env layout.Env, start geom.Orientation, toggleKey uint32) *BSP {
	if toggleKey == 0 {
		toggleKey = DefaultToggleKey
	}
	return &BSP{
		env:       env,
		tree:      NewTree(env.Reg),
		next:      start,
		toggleKey: toggleKey,
	}
}

func (l *BSP) Kind() string      { return "bsp" }
func (l *BSP) ManagedCount() int { return l.tree.Count() }
func (l *BSP) Empty() bool       { return l.tree.Count() == 0 }

func (l *BSP) Tree() *Tree { return l.tree }

// NextOrientation reports the orientation the next insert will split
// along.
func (l *BSP) NextOrientation() geom.Orientation { return l.next }

// ToggleOrientation flips the orientation used for the next insert.
func (l *BSP) ToggleOrientation() {
	l.next = l.next.Other()
}

func (l *BSP) ViewCreated(ref entity.ViewRef) bool {
	at := l.tree.leafOf(l.tilingRoot)
	if !l.tree.Insert(ref, at, l.next) {
		return false
	}
	// A freshly mapped view is what focus lands on next.
	l.tilingRoot = ref
	l.Arrange(l.usable)
	return true
}

func (l *BSP) ViewDestroyed(ref entity.ViewRef) {
	if l.tilingRoot == ref {
		l.tilingRoot = entity.ViewRef{}
	}
	l.tree.Remove(ref)
	l.Arrange(l.usable)
}

func (l *BSP) ViewFocused(ref entity.ViewRef) {
	if l.tree.leafOf(ref) != nilNode {
		l.tilingRoot = ref
	}
}

func (l *BSP) MoveRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	if !l.tree.Move(ref, o, d) {
		return false
	}
	l.Arrange(l.usable)
	return true
}

func (l *BSP) ResizeRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	if !l.tree.Resize(ref, o, d, delta) {
		return false
	}
	l.Arrange(l.usable)
	return true
}

func (l *BSP) NavigateRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) (entity.ViewRef, bool) {
	return l.tree.Navigate(ref, o, d)
}

func (l *BSP) KeyPressed(ev layout.KeyEvent) bool {
	if ev.Pressed && ev.Code == l.toggleKey {
		l.ToggleOrientation()
		return true
	}
	return false
}

func (l *BSP) Arrange(usable geom.Rect) {
	l.usable = usable
	if !usable.Empty() {
		l.tree.Recalculate(usable)
	}
}

func (l *BSP) Snapshot() layout.Snapshot {
	return layout.Snapshot{
		Kind:  l.Kind(),
		Views: l.viewNames(),
		Tree:  l.tree.Snapshot(),
	}
}

func (l *BSP) viewNames() []string {
	var names []string
	for _, ref := range l.tree.Leaves() {
		if v := l.env.Reg.View(ref); v != nil {
			names = append(names, v.Name())
		}
	}
	return names
}
