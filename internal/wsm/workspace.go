// Package wsm multiplexes the numbered workspace set (1..32) onto the
// outputs that currently exist. It owns the workspace registry, binds
// workspaces to outputs, and routes every compositor event to the
// right workspace's layout.
package wsm

import (
	"slices"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
)

// MaxWorkspaces is the number of workspace slots, one per bit of an
// output's visibility mask.
const MaxWorkspaces = 32

const (
	activeKey entity.Key = "wsm.active" // on outputs
	viewKey   entity.Key = "wsm.view"   // on views
)

// ActiveWorkspace tags an output with the workspace it displays.
type ActiveWorkspace struct {
	Num  uint8
	Name string
}

// ViewWorkspace tags a view with the workspace that owns it. A live
// view carries exactly one of these at all times after creation.
type ViewWorkspace struct {
	Num  uint8
	Name string
}

type Workspace struct {
	num       uint8
	name      string
	views     []entity.ViewRef
	lastFocus entity.ViewRef
	output    entity.OutputRef
	layout    layout.Layout
}

func (w *Workspace) Num() uint8            { return w.num }
func (w *Workspace) Name() string          { return w.name }
func (w *Workspace) Layout() layout.Layout { return w.layout }

// Bound reports whether the workspace is currently displayed on an
// output. The binding ref may be stale; callers resolve through the
// registry.
func (w *Workspace) Bound() bool { return !w.output.Zero() }

func (w *Workspace) Views() []entity.ViewRef {
	return slices.Clone(w.views)
}

func (w *Workspace) holds(ref entity.ViewRef) bool {
	return slices.Contains(w.views, ref)
}

func (w *Workspace) addView(ref entity.ViewRef) {
	if !w.holds(ref) {
		w.views = append(w.views, ref)
	}
}

func (w *Workspace) dropView(ref entity.ViewRef) {
	if i := slices.Index(w.views, ref); i != -1 {
		w.views = slices.Delete(w.views, i, i+1)
	}
	if w.lastFocus == ref {
		w.lastFocus = entity.ViewRef{}
	}
}

// mask is the output visibility bit for this workspace.
func (w *Workspace) mask() uint32 {
	return 1 << (w.num - 1)
}

type WorkspaceSnapshot struct {
	Num    uint8           `json:"num"`
	Name   string          `json:"name"`
	Output string          `json:"output,omitempty"`
	Views  int             `json:"views"`
	Layout layout.Snapshot `json:"layout"`
}

func (w *Workspace) snapshot(reg *entity.Registry) WorkspaceSnapshot {
	s := WorkspaceSnapshot{
		Num:    w.num,
		Name:   w.name,
		Views:  w.layout.ManagedCount(),
		Layout: w.layout.Snapshot(),
	}
	if out := reg.Output(w.output); out != nil {
		s.Output = out.Name()
	}
	return s
}

// usableRect is the output rectangle shrunk by the output's UI insets
// (panels, bars) stored by the chrome layer.
func usableRect(out *entity.Output) geom.Rect {
	insets, _ := entity.Get[geom.Insets](out.Store(), layout.InsetsKey)
	return out.Rect().Shrink(insets)
}
