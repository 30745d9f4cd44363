// Package xpreview renders the layout core's decisions as real X
// windows: the top-level window is a simulated output, each configured
// view is a colored subwindow, and X input feeds back into the
// multiplexer. It exists for development; no Wayland machinery needed.
package xpreview

import (
	"context"
	"log/slog"

	"github.com/ItsNotGoodName/waytiler/internal/config"
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/layout"
	"github.com/ItsNotGoodName/waytiler/internal/pump"
	"github.com/ItsNotGoodName/waytiler/internal/wsm"
	"github.com/google/uuid"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var palette = []uint32{0xbf616a, 0xa3be8c, 0xebcb8b, 0x81a1c1, 0xb48ead, 0x88c0d0}

// NormalizeConfig assigns a UUID to every preview view missing one.
func NormalizeConfig(store config.Store) error {
	return store.UpdateConfig(func(cfg config.Config) (config.Config, error) {
		for i := range cfg.Preview.Views {
			if cfg.Preview.Views[i].UUID == "" {
				cfg.Preview.Views[i].UUID = uuid.NewString()
			}
		}
		return cfg, nil
	})
}

type Preview struct {
	log     *slog.Logger
	p       *pump.Pump
	manager *wsm.Manager
	streams []config.Stream
}

func New(log *slog.Logger, p *pump.Pump, manager *wsm.Manager, streams []config.Stream) *Preview {
	return &Preview{
		log:     log,
		p:       p,
		manager: manager,
		streams: streams,
	}
}

// String implements sutureext.Service.
func (p *Preview) String() string {
	return "xpreview.Preview"
}

// Serve implements suture.Service.
func (p *Preview) Serve(ctx context.Context) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	win, err := createWindow(conn)
	if err != nil {
		return err
	}

	var output *entity.Output
	err = p.p.Dispatch(ctx, func() {
		reg := p.manager.Registry()
		output = reg.AddOutput("X11-1", int(win.Width), int(win.Height), 1, outputBackend{})
		if !p.manager.OutputCreated(output.Ref()) {
			reg.RemoveOutput(output.Ref())
			output = nil
		}
	})
	if err != nil {
		return err
	}
	if output == nil {
		p.log.Error("Preview output rejected")
		return nil
	}

	views := make(map[xproto.Window]entity.ViewRef)
	for i, stream := range p.streams {
		name := stream.Name
		if name == "" {
			name = stream.UUID
		}

		wid, err := createSubWindow(conn, win.WID, palette[i%len(palette)])
		if err != nil {
			return err
		}

		if err := p.p.Dispatch(ctx, func() {
			reg := p.manager.Registry()
			v := reg.AddView(name, output.Ref(), viewBackend{conn: conn, wid: wid})
			if !p.manager.ViewCreated(v.Ref()) {
				reg.RemoveView(v.Ref())
				return
			}
			views[wid] = v.Ref()
		}); err != nil {
			return err
		}
	}

	eventC := make(chan xgb.Event)
	go receiveEvents(ctx, conn, eventC)

	for {
		var ev xgb.Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev = <-eventC:
		}
		if ev == nil {
			p.log.Debug("X connection closed")
			return nil
		}

		switch ev := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			if ev.Window != win.WID {
				continue
			}
			p.p.Dispatch(ctx, func() {
				output.SetResolution(int(ev.Width), int(ev.Height))
				p.manager.OutputResized(output.Ref())
			})
		case xproto.KeyPressEvent:
			p.p.Dispatch(ctx, func() {
				p.manager.KeyPressed(layout.KeyEvent{
					Code:      uint32(ev.Detail),
					Pressed:   true,
					Modifiers: uint32(ev.State),
				})
			})
		case xproto.ButtonPressEvent:
			if ref, ok := views[ev.Child]; ok {
				p.p.Dispatch(ctx, func() {
					p.manager.Registry().FocusView(ref)
					p.manager.ViewFocused(ref)
				})
				continue
			}
			p.p.Dispatch(ctx, func() {
				p.manager.PointerPressed(layout.PointerEvent{
					X:       float64(ev.EventX),
					Y:       float64(ev.EventY),
					Button:  uint32(ev.Detail),
					Pressed: true,
				})
			})
		case xproto.DestroyNotifyEvent:
			p.p.Dispatch(ctx, func() {
				p.manager.OutputDestroyed(output.Ref())
				p.manager.Registry().RemoveOutput(output.Ref())
			})
			return nil
		default:
			p.log.Debug("Unhandled X event", "event", ev)
		}
	}
}

func receiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			select {
			case eventC <- nil:
			case <-ctx.Done():
			}
			return
		}
		if err != nil {
			continue
		}
		select {
		case eventC <- ev:
		case <-ctx.Done():
			return
		}
	}
}
