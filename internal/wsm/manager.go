package wsm

import (
	"log/slog"
	"sort"

	"github.com/ItsNotGoodName/waytiler/internal/config"
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
)

// Event describes a state change observers may care about.
type Event struct {
	Kind      string `json:"kind"`
	Workspace uint8  `json:"workspace,omitempty"`
	Output    string `json:"output,omitempty"`
	View      string `json:"view,omitempty"`
}

// Manager is the workspace multiplexer. It is single-threaded: every
// method must be called from the compositor's event dispatch.
type Manager struct {
	log      *slog.Logger
	reg      *entity.Registry
	cfg      config.Config
	bindings []config.Keybind
	notify   func(Event)

	workspaces map[uint8]*Workspace
}

func NewManager(log *slog.Logger, reg *entity.Registry, cfg config.Config, bindings []config.Keybind, notify func(Event)) *Manager {
	if notify == nil {
		notify = func(Event) {}
	}
	return &Manager{
		log:        log,
		reg:        reg,
		cfg:        cfg.Normalize(log),
		bindings:   bindings,
		notify:     notify,
		workspaces: make(map[uint8]*Workspace),
	}
}

func (m *Manager) Registry() *entity.Registry { return m.reg }

// Workspace returns the workspace for a number, or nil when it does
// not currently exist.
func (m *Manager) Workspace(num uint8) *Workspace {
	return m.workspaces[num]
}

// Numbers returns the numbers currently in the registry, ascending.
func (m *Manager) Numbers() []uint8 {
	nums := make([]uint8, 0, len(m.workspaces))
	for num := range m.workspaces {
		nums = append(nums, num)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// ensure returns the workspace for num, creating it from config on
// first reference.
func (m *Manager) ensure(num uint8) *Workspace {
	if ws, ok := m.workspaces[num]; ok {
		return ws
	}

	wcfg, ok := m.cfg.WorkspaceFor(num)
	if !ok {
		wcfg = config.Workspace{Number: int(num), Layout: config.Layout{Kind: "bsp"}}
	}
	if wcfg.Name == "" {
		wcfg.Name = wcfg.Layout.Kind
	}

	env := layout.Env{Log: m.log.With("workspace", num), Reg: m.reg}
	lay, err := newLayout(env, wcfg.Layout, m.cfg.StartOrientation())
	if err != nil {
		m.log.Error("Invalid layout config, falling back to bsp", "workspace", num, "error", err)
		lay, _ = newLayout(env, config.Layout{Kind: "bsp"}, m.cfg.StartOrientation())
	}

	ws := &Workspace{num: num, name: wcfg.Name, layout: lay}
	m.workspaces[num] = ws
	m.notify(Event{Kind: "workspace-created", Workspace: num})
	return ws
}

// gc destroys the workspace once it is unbound and its layout manages
// no views. Destroyed means removed from the registry; the number is
// only recreated by an explicit later reference.
func (m *Manager) gc(ws *Workspace) {
	if ws.Bound() || !ws.layout.Empty() {
		return
	}
	delete(m.workspaces, ws.num)
	m.notify(Event{Kind: "workspace-destroyed", Workspace: ws.num})
}

func (m *Manager) arrange(ws *Workspace) {
	out := m.reg.Output(ws.output)
	if out == nil {
		return
	}
	ws.layout.Arrange(usableRect(out))
}

// boundTo returns the live output the workspace is displayed on.
func (m *Manager) boundTo(ws *Workspace) *entity.Output {
	if ws == nil {
		return nil
	}
	return m.reg.Output(ws.output)
}

// lowestFree finds the lowest workspace number not bound to any
// output. Zero means all 32 are taken.
func (m *Manager) lowestFree() uint8 {
	for num := uint8(1); num <= MaxWorkspaces; num++ {
		ws, ok := m.workspaces[num]
		if !ok || m.boundTo(ws) == nil {
			return num
		}
	}
	return 0
}

func (m *Manager) bind(ws *Workspace, out *entity.Output) {
	ws.output = out.Ref()
	entity.Put(out.Store(), activeKey, ActiveWorkspace{Num: ws.num, Name: ws.name})
	out.SetMask(ws.mask())
	ws.layout.Attached(out.Ref())

	for _, ref := range ws.views {
		if v := m.reg.View(ref); v != nil {
			v.SetOutput(out.Ref())
			v.SetVisible(true)
		}
	}
	m.arrange(ws)
	m.notify(Event{Kind: "workspace-bound", Workspace: ws.num, Output: out.Name()})
}

func (m *Manager) unbind(ws *Workspace) {
	out := m.boundTo(ws)
	ws.output = entity.OutputRef{}
	ws.layout.Detached()

	for _, ref := range ws.views {
		if v := m.reg.View(ref); v != nil {
			v.SetVisible(false)
		}
	}
	if out != nil {
		entity.Take[ActiveWorkspace](out.Store(), activeKey)
		out.SetMask(0)
		m.notify(Event{Kind: "workspace-unbound", Workspace: ws.num, Output: out.Name()})
	}
}

// OutputCreated binds the lowest free workspace number to the output.
// False means every number is taken and the output should be rejected.
func (m *Manager) OutputCreated(ref entity.OutputRef) bool {
	out := m.reg.Output(ref)
	if out == nil {
		return false
	}

	num := m.lowestFree()
	if num == 0 {
		m.log.Error("No free workspace number for new output", "output", out.Name())
		return false
	}

	ws := m.ensure(num)
	m.bind(ws, out)
	if m.reg.FocusedOutput().Zero() {
		m.reg.FocusOutput(ref)
	}
	m.RestoreFocus(ws)
	return true
}

// OutputDestroyed unbinds the output's workspace and garbage-collects
// it when possible. Call before removing the output from the registry.
func (m *Manager) OutputDestroyed(ref entity.OutputRef) {
	out := m.reg.Output(ref)
	if out == nil {
		return
	}
	tag, ok := entity.Get[ActiveWorkspace](out.Store(), activeKey)
	if !ok {
		return
	}
	ws := m.workspaces[tag.Num]
	if ws == nil {
		return
	}
	m.unbind(ws)
	m.gc(ws)
}

// SwitchWorkspace makes the output display the target workspace. When
// the target is already displayed on a different output, focus is
// redirected there instead; a workspace never shows on two outputs.
func (m *Manager) SwitchWorkspace(ref entity.OutputRef, target uint8) {
	if target < 1 || target > MaxWorkspaces {
		m.log.Warn("Switch to workspace number out of range", "target", target)
		return
	}
	out := m.reg.Output(ref)
	if out == nil {
		return
	}

	cur, hasCur := entity.Get[ActiveWorkspace](out.Store(), activeKey)
	if hasCur && cur.Num == target {
		return
	}

	if existing := m.workspaces[target]; existing != nil {
		if other := m.boundTo(existing); other != nil && other.Ref() != ref {
			m.reg.FocusOutput(other.Ref())
			m.RestoreFocus(existing)
			m.notify(Event{Kind: "focus-redirected", Workspace: target, Output: other.Name()})
			return
		}
	}

	if hasCur {
		if ws := m.workspaces[cur.Num]; ws != nil {
			m.unbind(ws)
			m.gc(ws)
		}
	}

	ws := m.ensure(target)
	m.bind(ws, out)
	m.reg.FocusOutput(ref)
	m.RestoreFocus(ws)
}

// RestoreFocus focuses the workspace's last-focused view when it is
// still alive, else the most recently added live view, else clears
// focus explicitly.
func (m *Manager) RestoreFocus(ws *Workspace) {
	if ws == nil {
		return
	}
	if v := m.reg.View(ws.lastFocus); v != nil {
		m.reg.FocusView(ws.lastFocus)
		return
	}
	for i := len(ws.views) - 1; i >= 0; i-- {
		if m.reg.View(ws.views[i]) != nil {
			ws.lastFocus = ws.views[i]
			m.reg.FocusView(ws.views[i])
			return
		}
	}
	m.reg.ClearFocus()
}

// MoveToWorkspace detaches the view from its current workspace and
// attaches it to the target, creating the target on first reference.
func (m *Manager) MoveToWorkspace(ref entity.ViewRef, target uint8) {
	if target < 1 || target > MaxWorkspaces {
		m.log.Warn("Move to workspace number out of range", "target", target)
		return
	}
	v := m.reg.View(ref)
	if v == nil {
		return
	}

	if tag, ok := entity.Take[ViewWorkspace](v.Store(), viewKey); ok {
		if src := m.workspaces[tag.Num]; src != nil {
			if tag.Num == target {
				entity.Put(v.Store(), viewKey, tag)
				return
			}
			src.layout.ViewDestroyed(ref)
			src.dropView(ref)
			if m.boundTo(src) != nil {
				m.RestoreFocus(src)
				m.arrange(src)
			}
			m.gc(src)
		}
	}

	dst := m.ensure(target)
	m.attach(dst, v)
}

func (m *Manager) attach(ws *Workspace, v *entity.View) {
	ref := v.Ref()
	ws.addView(ref)
	ws.layout.ViewCreated(ref)
	entity.Put(v.Store(), viewKey, ViewWorkspace{Num: ws.num, Name: ws.name})

	if out := m.boundTo(ws); out != nil {
		v.SetOutput(out.Ref())
		v.SetVisible(true)
		m.arrange(ws)
		ws.lastFocus = ref
		m.reg.FocusView(ref)
	} else {
		v.SetVisible(false)
	}
	m.notify(Event{Kind: "view-attached", Workspace: ws.num, View: v.Name()})
}

// ViewCreated inserts a new view into the workspace active on the
// focused output. False means the event was dropped.
func (m *Manager) ViewCreated(ref entity.ViewRef) bool {
	v := m.reg.View(ref)
	if v == nil {
		return false
	}

	out := m.reg.Output(m.reg.FocusedOutput())
	if out == nil {
		out = m.reg.Output(v.Output())
	}
	if out == nil {
		m.log.Error("View created with no focused output", "view", v.Name())
		return false
	}

	tag, ok := entity.Get[ActiveWorkspace](out.Store(), activeKey)
	if !ok {
		// Upstream bug: a bound output always carries a tag. Drop the
		// event rather than crash.
		m.log.Error("Focused output has no active workspace", "output", out.Name())
		return false
	}
	ws := m.workspaces[tag.Num]
	if ws == nil {
		m.log.Error("Active workspace tag points at unknown workspace", "output", out.Name(), "workspace", tag.Num)
		return false
	}

	m.attach(ws, v)
	return true
}

// ViewDestroyed removes the view from its workspace. Call before
// removing the view from the registry.
func (m *Manager) ViewDestroyed(ref entity.ViewRef) {
	ws := m.workspaceOf(ref)
	if ws == nil {
		return
	}
	if v := m.reg.View(ref); v != nil {
		entity.Take[ViewWorkspace](v.Store(), viewKey)
	}

	wasFocused := m.reg.FocusedView() == ref
	ws.layout.ViewDestroyed(ref)
	ws.dropView(ref)
	m.notify(Event{Kind: "view-detached", Workspace: ws.num})

	if m.boundTo(ws) != nil {
		m.arrange(ws)
		if wasFocused {
			m.RestoreFocus(ws)
		}
		return
	}
	m.gc(ws)
}

func (m *Manager) ViewFocused(ref entity.ViewRef) {
	ws := m.workspaceOf(ref)
	if ws == nil {
		return
	}
	ws.lastFocus = ref
	ws.layout.ViewFocused(ref)
}

// workspaceOf resolves a view's workspace via its tag, scanning the
// registry as a fallback for views whose store is already gone.
func (m *Manager) workspaceOf(ref entity.ViewRef) *Workspace {
	if v := m.reg.View(ref); v != nil {
		if tag, ok := entity.Get[ViewWorkspace](v.Store(), viewKey); ok {
			if ws := m.workspaces[tag.Num]; ws != nil {
				return ws
			}
			m.log.Error("View workspace tag points at unknown workspace", "view", v.Name(), "workspace", tag.Num)
			return nil
		}
		m.log.Error("View has no workspace tag", "view", v.Name())
		return nil
	}
	for _, ws := range m.workspaces {
		if ws.holds(ref) {
			return ws
		}
	}
	return nil
}

func (m *Manager) MoveRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	ws := m.workspaceOf(ref)
	if ws == nil {
		return false
	}
	return ws.layout.MoveRequested(ref, o, d)
}

func (m *Manager) ResizeRequested(ref entity.ViewRef, o geom.Orientation, d geom.Direction, delta float64) bool {
	ws := m.workspaceOf(ref)
	if ws == nil {
		return false
	}
	return ws.layout.ResizeRequested(ref, o, d, delta)
}

// Navigate moves focus directionally within the view's workspace.
func (m *Manager) Navigate(ref entity.ViewRef, o geom.Orientation, d geom.Direction) bool {
	ws := m.workspaceOf(ref)
	if ws == nil {
		return false
	}
	target, ok := ws.layout.NavigateRequested(ref, o, d)
	if !ok {
		return false
	}
	ws.lastFocus = target
	m.reg.FocusView(target)
	ws.layout.ViewFocused(target)
	return true
}

func (m *Manager) OutputResized(ref entity.OutputRef) {
	out := m.reg.Output(ref)
	if out == nil {
		return
	}
	tag, ok := entity.Get[ActiveWorkspace](out.Store(), activeKey)
	if !ok {
		return
	}
	ws := m.workspaces[tag.Num]
	if ws == nil {
		return
	}
	ws.layout.OutputResized(ref)
	m.arrange(ws)
}

// activeLayout is the layout of the workspace shown on the focused
// output, for view-less input events.
func (m *Manager) activeLayout() layout.Layout {
	out := m.reg.Output(m.reg.FocusedOutput())
	if out == nil {
		return nil
	}
	tag, ok := entity.Get[ActiveWorkspace](out.Store(), activeKey)
	if !ok {
		return nil
	}
	ws := m.workspaces[tag.Num]
	if ws == nil {
		return nil
	}
	return ws.layout
}

// KeyPressed handles a global key event: key bindings first, then the
// active workspace's layout.
func (m *Manager) KeyPressed(ev layout.KeyEvent) bool {
	if ev.Pressed {
		for _, kb := range m.bindings {
			if kb.Key != ev.Code || kb.Mods != ev.Modifiers {
				continue
			}
			m.runBinding(kb)
			return true
		}
	}

	if lay := m.activeLayout(); lay != nil {
		return lay.KeyPressed(ev)
	}
	return false
}

func (m *Manager) runBinding(kb config.Keybind) {
	focused := m.reg.FocusedView()
	switch kb.Action {
	case config.ActionNavigate:
		m.Navigate(focused, kb.Orientation, kb.Direction)
	case config.ActionMove:
		m.MoveRequested(focused, kb.Orientation, kb.Direction)
	case config.ActionResize:
		m.ResizeRequested(focused, kb.Orientation, kb.Direction, kb.Delta)
	case config.ActionSwitchWorkspace:
		m.SwitchWorkspace(m.reg.FocusedOutput(), kb.Workspace)
	case config.ActionMoveToWorkspace:
		m.MoveToWorkspace(focused, kb.Workspace)
	}
}

func (m *Manager) PointerPressed(ev layout.PointerEvent) bool {
	if lay := m.activeLayout(); lay != nil {
		return lay.PointerPressed(ev)
	}
	return false
}

func (m *Manager) TouchDown(ev layout.TouchEvent) bool {
	if lay := m.activeLayout(); lay != nil {
		return lay.TouchDown(ev)
	}
	return false
}

// Snapshot serializes the whole registry for the debug API.
func (m *Manager) Snapshot() []WorkspaceSnapshot {
	var out []WorkspaceSnapshot
	for _, num := range m.Numbers() {
		out = append(out, m.workspaces[num].snapshot(m.reg))
	}
	return out
}
