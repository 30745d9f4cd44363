package xpreview

import (
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/geom"
	"github.com/ItsNotGoodName/waytiler/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type window struct {
	WID    xproto.Window
	Width  uint16
	Height uint16
}

// createWindow maps the preview's top-level window, which stands in
// for one physical output.
func createWindow(conn *xgb.Conn) (window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	cursor, err := xcursor.CreateCursor(conn, xcursor.LeftPtr)
	if err != nil {
		return window{}, err
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return window{}, err
	}

	if err := xproto.CreateWindowChecked(conn, screen.RootDepth,
		wid, screen.Root,
		0, 0, screen.WidthInPixels, screen.HeightInPixels, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor, // 1, 2, 3
		[]uint32{
			0x2e3440, // 1
			xproto.EventMaskStructureNotify | xproto.EventMaskKeyPress | xproto.EventMaskButtonPress, // 2
			uint32(cursor), // 3
		}).Check(); err != nil {
		return window{}, err
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return window{}, err
	}

	return window{
		WID:    wid,
		Width:  screen.WidthInPixels,
		Height: screen.HeightInPixels,
	}, nil
}

// createSubWindow maps one colored subwindow standing in for a view.
func createSubWindow(conn *xgb.Conn, root xproto.Window, pixel uint32) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent,
		wid, root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, xproto.WindowClassCopyFromParent,
		xproto.CwBackPixel, []uint32{pixel}).Check(); err != nil {
		return 0, err
	}

	if err = xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		return 0, err
	}

	return wid, nil
}

// viewBackend applies core-decided geometry, focus, and visibility to
// the view's X window.
type viewBackend struct {
	conn *xgb.Conn
	wid  xproto.Window
}

func (b viewBackend) ViewGeometry(r geom.Rect) {
	xproto.ConfigureWindow(b.conn, b.wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(max(r.W, 1)), uint32(max(r.H, 1))})
}

func (b viewBackend) ViewFocus(focused bool) {
	if focused {
		xproto.ConfigureWindow(b.conn, b.wid,
			xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	}
}

func (b viewBackend) ViewVisible(visible bool) {
	if visible {
		xproto.MapWindow(b.conn, b.wid)
	} else {
		xproto.UnmapWindow(b.conn, b.wid)
	}
}

// outputBackend has nothing to push; the preview window always shows
// whatever workspace is bound.
type outputBackend struct{}

func (outputBackend) OutputWorkspaceMask(uint32) {}

var _ entity.ViewBackend = viewBackend{}
var _ entity.OutputBackend = outputBackend{}
