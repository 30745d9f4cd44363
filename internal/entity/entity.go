// Package entity owns the View and Output registries. Layout code
// never holds pointers to entities across event boundaries; it holds
// refs (index plus generation) and resolves them through the Registry,
// which returns nil for anything that has since been destroyed.
package entity

import (
	"log/slog"

	"github.com/ItsNotGoodName/waytiler/internal/geom"
)

type ViewRef struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

func (r ViewRef) Zero() bool { return r.Gen == 0 }

type OutputRef struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

func (r OutputRef) Zero() bool { return r.Gen == 0 }

// ViewBackend receives writes the compositor must apply to the real
// surface. Implementations must not call back into the core.
type ViewBackend interface {
	ViewGeometry(geom.Rect)
	ViewFocus(bool)
	ViewVisible(bool)
}

// OutputBackend receives writes destined for the physical display layer.
type OutputBackend interface {
	OutputWorkspaceMask(uint32)
}

type View struct {
	ref     ViewRef
	name    string
	geo     geom.Rect
	focused bool
	visible bool
	output  OutputRef
	backend ViewBackend
	store   Store
}

func (v *View) Ref() ViewRef        { return v.ref }
func (v *View) Name() string        { return v.name }
func (v *View) Geometry() geom.Rect { return v.geo }
func (v *View) Focused() bool       { return v.focused }
func (v *View) Visible() bool       { return v.visible }
func (v *View) Output() OutputRef   { return v.output }
func (v *View) Store() *Store       { return &v.store }

func (v *View) SetGeometry(r geom.Rect) {
	v.geo = r
	if v.backend != nil {
		v.backend.ViewGeometry(r)
	}
}

func (v *View) SetVisible(visible bool) {
	v.visible = visible
	if v.backend != nil {
		v.backend.ViewVisible(visible)
	}
}

func (v *View) SetOutput(output OutputRef) {
	v.output = output
}

func (v *View) setFocused(focused bool) {
	v.focused = focused
	if v.backend != nil {
		v.backend.ViewFocus(focused)
	}
}

type Output struct {
	ref     OutputRef
	name    string
	width   int
	height  int
	scale   float64
	mask    uint32
	backend OutputBackend
	store   Store
}

func (o *Output) Ref() OutputRef { return o.ref }
func (o *Output) Name() string   { return o.name }
func (o *Output) Scale() float64 { return o.scale }
func (o *Output) Store() *Store  { return &o.store }
func (o *Output) Mask() uint32   { return o.mask }

func (o *Output) Resolution() (int, int) { return o.width, o.height }

func (o *Output) Rect() geom.Rect {
	return geom.Rect{W: o.width, H: o.height}
}

func (o *Output) SetResolution(w, h int) {
	o.width, o.height = w, h
}

func (o *Output) SetMask(mask uint32) {
	o.mask = mask
	if o.backend != nil {
		o.backend.OutputWorkspaceMask(mask)
	}
}

type viewSlot struct {
	gen  uint32
	view *View
}

type outputSlot struct {
	gen    uint32
	output *Output
}

type Registry struct {
	log *slog.Logger

	views   []viewSlot
	outputs []outputSlot

	focusedView   ViewRef
	focusedOutput OutputRef
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{log: log}
}

func (r *Registry) AddView(name string, output OutputRef, backend ViewBackend) *View {
	idx := -1
	for i := range r.views {
		if r.views[i].view == nil {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.views = append(r.views, viewSlot{})
		idx = len(r.views) - 1
	}

	r.views[idx].gen++
	v := &View{
		ref:     ViewRef{Index: uint32(idx), Gen: r.views[idx].gen},
		name:    name,
		visible: true,
		output:  output,
		backend: backend,
		store:   NewStore(),
	}
	r.views[idx].view = v
	return v
}

// View resolves a ref, returning nil when the view has been destroyed
// or the ref was never valid.
func (r *Registry) View(ref ViewRef) *View {
	if ref.Zero() || int(ref.Index) >= len(r.views) {
		return nil
	}
	slot := r.views[ref.Index]
	if slot.gen != ref.Gen {
		return nil
	}
	return slot.view
}

func (r *Registry) RemoveView(ref ViewRef) bool {
	v := r.View(ref)
	if v == nil {
		return false
	}
	r.views[ref.Index].view = nil
	if r.focusedView == ref {
		r.focusedView = ViewRef{}
	}
	return true
}

func (r *Registry) Views() []*View {
	var out []*View
	for i := range r.views {
		if r.views[i].view != nil {
			out = append(out, r.views[i].view)
		}
	}
	return out
}

func (r *Registry) AddOutput(name string, w, h int, scale float64, backend OutputBackend) *Output {
	idx := -1
	for i := range r.outputs {
		if r.outputs[i].output == nil {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.outputs = append(r.outputs, outputSlot{})
		idx = len(r.outputs) - 1
	}

	if scale == 0 {
		scale = 1
	}
	r.outputs[idx].gen++
	o := &Output{
		ref:     OutputRef{Index: uint32(idx), Gen: r.outputs[idx].gen},
		name:    name,
		width:   w,
		height:  h,
		scale:   scale,
		backend: backend,
		store:   NewStore(),
	}
	r.outputs[idx].output = o
	return o
}

func (r *Registry) Output(ref OutputRef) *Output {
	if ref.Zero() || int(ref.Index) >= len(r.outputs) {
		return nil
	}
	slot := r.outputs[ref.Index]
	if slot.gen != ref.Gen {
		return nil
	}
	return slot.output
}

func (r *Registry) RemoveOutput(ref OutputRef) bool {
	o := r.Output(ref)
	if o == nil {
		return false
	}
	r.outputs[ref.Index].output = nil
	if r.focusedOutput == ref {
		r.focusedOutput = OutputRef{}
	}
	return true
}

func (r *Registry) Outputs() []*Output {
	var out []*Output
	for i := range r.outputs {
		if r.outputs[i].output != nil {
			out = append(out, r.outputs[i].output)
		}
	}
	return out
}

func (r *Registry) OutputByName(name string) *Output {
	for i := range r.outputs {
		if o := r.outputs[i].output; o != nil && o.name == name {
			return o
		}
	}
	return nil
}

// FocusView moves keyboard focus to the view and the view's output.
// A zero ref clears focus.
func (r *Registry) FocusView(ref ViewRef) {
	if prev := r.View(r.focusedView); prev != nil && r.focusedView != ref {
		prev.setFocused(false)
	}
	r.focusedView = ViewRef{}

	v := r.View(ref)
	if v == nil {
		return
	}
	v.setFocused(true)
	r.focusedView = ref
	if !v.output.Zero() {
		r.focusedOutput = v.output
	}
}

func (r *Registry) ClearFocus() {
	r.FocusView(ViewRef{})
}

func (r *Registry) FocusOutput(ref OutputRef) {
	if r.Output(ref) == nil {
		return
	}
	r.focusedOutput = ref
}

func (r *Registry) FocusedView() ViewRef     { return r.focusedView }
func (r *Registry) FocusedOutput() OutputRef { return r.focusedOutput }
