package layout

import (
	"slices"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

// Deck is the exclusive-alternative stack: every view occupies the
// full usable area and only the active one is visible. Navigation
// cycles through the stack regardless of orientation.
type Deck struct {
	Base

	env    Env
	views  []entity.ViewRef
	active int
	usable geom.Rect
}

func NewDeck(env Env) *Deck {
	return &Deck{env: env}
}

func (l *Deck) Kind() string      { return "deck" }
func (l *Deck) ManagedCount() int { return len(l.views) }
func (l *Deck) Empty() bool       { return len(l.views) == 0 }

func (l *Deck) ViewCreated(ref entity.ViewRef) bool {
	if l.env.Reg.View(ref) == nil {
		return false
	}
	if slices.Contains(l.views, ref) {
		return true
	}
	l.views = append(l.views, ref)
	l.active = len(l.views) - 1
	l.Arrange(l.usable)
	return true
}

func (l *Deck) ViewDestroyed(ref entity.ViewRef) {
	i := slices.Index(l.views, ref)
	if i == -1 {
		return
	}
	l.views = slices.Delete(l.views, i, i+1)
	// Removing an earlier entry shifts the active view down a slot.
	if i < l.active {
		l.active--
	}
	if l.active >= len(l.views) {
		l.active = len(l.views) - 1
	}
	l.Arrange(l.usable)
}

func (l *Deck) ViewFocused(ref entity.ViewRef) {
	if i := slices.Index(l.views, ref); i != -1 && i != l.active {
		l.active = i
		l.Arrange(l.usable)
	}
}

func (l *Deck) NavigateRequested(ref entity.ViewRef, _ geom.Orientation, d geom.Direction) (entity.ViewRef, bool) {
	i := slices.Index(l.views, ref)
	if i == -1 || len(l.views) < 2 {
		return entity.ViewRef{}, false
	}
	if d == geom.Forward {
		i = (i + 1) % len(l.views)
	} else {
		i = (i + len(l.views) - 1) % len(l.views)
	}
	return l.views[i], true
}

func (l *Deck) Arrange(usable geom.Rect) {
	l.usable = usable
	for i, ref := range l.views {
		v := l.env.Reg.View(ref)
		if v == nil {
			continue
		}
		v.SetVisible(i == l.active)
		if i == l.active {
			v.SetGeometry(usable)
		}
	}
}

func (l *Deck) Snapshot() Snapshot {
	return Snapshot{Kind: l.Kind(), Views: viewNames(l.env.Reg, l.views)}
}
