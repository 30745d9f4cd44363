package layout

import (
	"slices"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

const (
	floatingCascadeStep = 32
	floatingMoveStep    = 24
	floatingDefaultW    = 640
	floatingDefaultH    = 480
)

// Floating places views wherever they ask to be and never rearranges
// them. New views are cascaded from the top-left corner.
type Floating struct {
	Base

	env    Env
	views  []entity.ViewRef
	usable geom.Rect
}

func NewFloating(env Env) *Floating {
	return &Floating{env: env}
}

func (l *Floating) Kind() string      { return "floating" }
func (l *Floating) ManagedCount() int { return len(l.views) }
func (l *Floating) Empty() bool       { return len(l.views) == 0 }

func (l *Floating) ViewCreated(ref entity.ViewRef) bool {
	v := l.env.Reg.View(ref)
	if v == nil {
		return false
	}
	if slices.Contains(l.views, ref) {
		return true
	}

	step := (len(l.views) * floatingCascadeStep) % 256
	v.SetGeometry(geom.Rect{
		X: l.usable.X + step,
		Y: l.usable.Y + step,
		W: floatingDefaultW,
		H: floatingDefaultH,
	})
	l.views = append(l.views, ref)
	return true
}

func (l *Floating) ViewDestroyed(ref entity.ViewRef) {
	if i := slices.Index(l.views, ref); i != -1 {
		l.views = slices.Delete(l.views, i, i+1)
	}
}

func (l *Floating) MoveRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	v := l.env.Reg.View(ref)
	if v == nil || !slices.Contains(l.views, ref) {
		return false
	}

	step := floatingMoveStep
	if d == geom.Backward {
		step = -step
	}
	r := v.Geometry()
	if o == geom.Horizontal {
		r.X += step
	} else {
		r.Y += step
	}
	v.SetGeometry(r)
	return true
}

func (l *Floating) ResizeRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	v := l.env.Reg.View(ref)
	if v == nil || !slices.Contains(l.views, ref) {
		return false
	}

	step := int(delta * float64(floatingDefaultW))
	if d == geom.Backward {
		step = -step
	}
	r := v.Geometry()
	if o == geom.Horizontal {
		r.W += step
	} else {
		r.H += step
	}
	if r.W < floatingMoveStep {
		r.W = floatingMoveStep
	}
	if r.H < floatingMoveStep {
		r.H = floatingMoveStep
	}
	v.SetGeometry(r)
	return true
}

func (l *Floating) Arrange(usable geom.Rect) {
	l.usable = usable

	// Only pull strays back inside the usable area.
	for _, ref := range l.views {
		v := l.env.Reg.View(ref)
		if v == nil {
			continue
		}
		r := v.Geometry()
		moved := false
		if r.X < usable.X {
			r.X, moved = usable.X, true
		}
		if r.Y < usable.Y {
			r.Y, moved = usable.Y, true
		}
		if r.X >= usable.X+usable.W {
			r.X, moved = usable.X, true
		}
		if r.Y >= usable.Y+usable.H {
			r.Y, moved = usable.Y, true
		}
		if moved {
			v.SetGeometry(r)
		}
	}
}

func (l *Floating) Snapshot() Snapshot {
	return Snapshot{Kind: l.Kind(), Views: viewNames(l.env.Reg, l.views)}
}

func viewNames(reg *entity.Registry, refs []entity.ViewRef) []string {
	var names []string
	for _, ref := range refs {
		if v := reg.View(ref); v != nil {
			names = append(names, v.Name())
		}
	}
	return names
}
