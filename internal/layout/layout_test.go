package layout

import (
	"log/slog"
	"testing"

	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) (Env, *entity.Output) {
	t.Helper()
	reg := entity.NewRegistry(slog.Default())
	out := reg.AddOutput("OUT-1", 1000, 1000, 1, nil)
	return Env{Log: slog.Default(), Reg: reg}, out
}

func addView(env Env, out *entity.Output, name string) entity.ViewRef {
	return env.Reg.AddView(name, out.Ref(), nil).Ref()
}

func TestFloatingCascade(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewFloating(env)
	l.Arrange(geom.Rect{W: 1000, H: 1000})

	a, b, c := addView(env, out, "a"), addView(env, out, "b"), addView(env, out, "c")
	require.True(t, l.ViewCreated(a))
	require.True(t, l.ViewCreated(b))
	require.True(t, l.ViewCreated(c))
	assert.Equal(t, 3, l.ManagedCount())

	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 640, H: 480}, env.Reg.View(a).Geometry())
	assert.Equal(t, geom.Rect{X: 32, Y: 32, W: 640, H: 480}, env.Reg.View(b).Geometry())
	assert.Equal(t, geom.Rect{X: 64, Y: 64, W: 640, H: 480}, env.Reg.View(c).Geometry())

	l.ViewDestroyed(b)
	assert.Equal(t, 2, l.ManagedCount())

	dead := addView(env, out, "dead")
	env.Reg.RemoveView(dead)
	assert.False(t, l.ViewCreated(dead))
}

func TestFloatingMoveResize(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewFloating(env)
	l.Arrange(geom.Rect{W: 1000, H: 1000})

	a := addView(env, out, "a")
	require.True(t, l.ViewCreated(a))

	require.True(t, l.MoveRequested(a, geom.Horizontal, geom.Forward))
	assert.Equal(t, 24, env.Reg.View(a).Geometry().X)

	// Moving off the top gets pulled back in on the next arrange.
	require.True(t, l.MoveRequested(a, geom.Vertical, geom.Backward))
	assert.Equal(t, -24, env.Reg.View(a).Geometry().Y)
	l.Arrange(geom.Rect{W: 1000, H: 1000})
	assert.Equal(t, 0, env.Reg.View(a).Geometry().Y)

	require.True(t, l.ResizeRequested(a, geom.Horizontal, geom.Forward, 0.1))
	assert.Equal(t, 704, env.Reg.View(a).Geometry().W)

	// Shrinking clamps to a minimum size.
	require.True(t, l.ResizeRequested(a, geom.Vertical, geom.Backward, 10))
	assert.Equal(t, 24, env.Reg.View(a).Geometry().H)

	untracked := addView(env, out, "x")
	assert.False(t, l.MoveRequested(untracked, geom.Horizontal, geom.Forward))
	assert.False(t, l.ResizeRequested(untracked, geom.Horizontal, geom.Forward, 0.1))
}

func TestDeckActiveView(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewDeck(env)
	l.Arrange(geom.Rect{W: 800, H: 600})

	a, b := addView(env, out, "a"), addView(env, out, "b")
	require.True(t, l.ViewCreated(a))
	require.True(t, l.ViewCreated(b))

	// The newest view is on top.
	assert.False(t, env.Reg.View(a).Visible())
	assert.True(t, env.Reg.View(b).Visible())
	assert.Equal(t, geom.Rect{W: 800, H: 600}, env.Reg.View(b).Geometry())

	l.ViewFocused(a)
	assert.True(t, env.Reg.View(a).Visible())
	assert.False(t, env.Reg.View(b).Visible())
	assert.Equal(t, geom.Rect{W: 800, H: 600}, env.Reg.View(a).Geometry())
}

func TestDeckNavigateCycles(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewDeck(env)

	a, b, c := addView(env, out, "a"), addView(env, out, "b"), addView(env, out, "c")
	for _, ref := range []entity.ViewRef{a, b, c} {
		require.True(t, l.ViewCreated(ref))
	}

	next, ok := l.NavigateRequested(a, geom.Horizontal, geom.Forward)
	require.True(t, ok)
	assert.Equal(t, b, next)

	// Orientation is irrelevant and the cycle wraps at both ends.
	next, ok = l.NavigateRequested(c, geom.Vertical, geom.Forward)
	require.True(t, ok)
	assert.Equal(t, a, next)

	next, ok = l.NavigateRequested(a, geom.Horizontal, geom.Backward)
	require.True(t, ok)
	assert.Equal(t, c, next)

	l.ViewDestroyed(b)
	l.ViewDestroyed(c)
	_, ok = l.NavigateRequested(a, geom.Horizontal, geom.Forward)
	assert.False(t, ok)
}

func TestDeckDestroyActive(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewDeck(env)
	l.Arrange(geom.Rect{W: 800, H: 600})

	a, b := addView(env, out, "a"), addView(env, out, "b")
	require.True(t, l.ViewCreated(a))
	require.True(t, l.ViewCreated(b))

	l.ViewDestroyed(b)
	assert.True(t, env.Reg.View(a).Visible())
	assert.Equal(t, 1, l.ManagedCount())

	l.ViewDestroyed(a)
	assert.True(t, l.Empty())
}

func TestDeckDestroyBeforeActive(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewDeck(env)
	l.Arrange(geom.Rect{W: 800, H: 600})

	a, b, c := addView(env, out, "a"), addView(env, out, "b"), addView(env, out, "c")
	require.True(t, l.ViewCreated(a))
	require.True(t, l.ViewCreated(b))
	require.True(t, l.ViewCreated(c))
	l.ViewFocused(b)

	// Destroying an entry below the active one must not shift which
	// view is on top of the deck.
	l.ViewDestroyed(a)
	assert.True(t, env.Reg.View(b).Visible())
	assert.False(t, env.Reg.View(c).Visible())
	assert.Equal(t, geom.Rect{W: 800, H: 600}, env.Reg.View(b).Geometry())
}

func TestFullscreenToggle(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewFullscreen(env, NewFloating(env), 0)
	l.Arrange(geom.Rect{W: 800, H: 600})

	a, b := addView(env, out, "a"), addView(env, out, "b")
	require.True(t, l.ViewCreated(a))
	require.True(t, l.ViewCreated(b))

	// No focused view yet, the toggle has nothing to engage.
	assert.True(t, l.KeyPressed(KeyEvent{Code: DefaultFullscreenKey, Pressed: true}))
	assert.False(t, l.Engaged())

	l.ViewFocused(a)
	assert.True(t, l.KeyPressed(KeyEvent{Code: DefaultFullscreenKey, Pressed: true}))
	assert.True(t, l.Engaged())
	assert.Equal(t, geom.Rect{W: 800, H: 600}, env.Reg.View(a).Geometry())

	// Focusing another view drops fullscreen.
	l.ViewFocused(b)
	assert.False(t, l.Engaged())

	// Key releases and other keys are not the toggle.
	assert.False(t, l.KeyPressed(KeyEvent{Code: DefaultFullscreenKey, Pressed: false}))
	assert.False(t, l.KeyPressed(KeyEvent{Code: 1, Pressed: true}))
}

func TestFullscreenDisengagesOnDestroy(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewFullscreen(env, NewFloating(env), 0)
	l.Arrange(geom.Rect{W: 800, H: 600})

	a := addView(env, out, "a")
	require.True(t, l.ViewCreated(a))
	l.ViewFocused(a)
	require.True(t, l.KeyPressed(KeyEvent{Code: DefaultFullscreenKey, Pressed: true}))
	require.True(t, l.Engaged())

	l.ViewDestroyed(a)
	assert.False(t, l.Engaged())
	assert.True(t, l.Empty())
}

func TestRouterSplitsSides(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewRouter(env, PrefixPredicate("term:"), NewDeck(env), NewFloating(env), 0.5)
	l.Arrange(geom.Rect{W: 1000, H: 1000})

	term := addView(env, out, "term:1")
	require.True(t, l.ViewCreated(term))
	// Alone, the matched side gets the whole area.
	assert.Equal(t, geom.Rect{W: 1000, H: 1000}, env.Reg.View(term).Geometry())

	web := addView(env, out, "web")
	require.True(t, l.ViewCreated(web))
	assert.Equal(t, 2, l.ManagedCount())

	// Matched side is the left half, the floating view is pulled into
	// the right half.
	assert.Equal(t, geom.Rect{X: 0, Y: 0, W: 500, H: 1000}, env.Reg.View(term).Geometry())
	assert.Equal(t, 500, env.Reg.View(web).Geometry().X)

	// Events route to the side that owns the view.
	require.True(t, l.MoveRequested(web, geom.Horizontal, geom.Forward))
	assert.Equal(t, 524, env.Reg.View(web).Geometry().X)

	l.ViewDestroyed(term)
	l.ViewDestroyed(web)
	assert.True(t, l.Empty())
}

func TestRouterSnapshot(t *testing.T) {
	env, out := newTestEnv(t)
	l := NewRouter(env, PrefixPredicate("term:"), NewDeck(env), NewFloating(env), 0)

	require.True(t, l.ViewCreated(addView(env, out, "term:1")))
	require.True(t, l.ViewCreated(addView(env, out, "web")))

	snap := l.Snapshot()
	assert.Equal(t, "router", snap.Kind)
	sides, ok := snap.Tree.([]Snapshot)
	require.True(t, ok)
	require.Len(t, sides, 2)
	assert.Equal(t, []string{"term:1"}, sides[0].Views)
	assert.Equal(t, []string{"web"}, sides[1].Views)
}
