// Package pump serializes all work onto the core's single event
// thread. The layout core is not safe for concurrent use; every
// caller, the X preview and the HTTP API included, funnels closures
// through here.
package pump

import (
	"context"
)

type Pump struct {
	c chan func()
}

func New() *Pump {
	return &Pump{c: make(chan func())}
}

// Dispatch runs fn on the core thread and waits for it to finish.
func (p *Pump) Dispatch(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.c <- func() {
		fn()
		close(done)
	}:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// String implements sutureext.Service.
func (p *Pump) String() string {
	return "pump.Pump"
}

// Serve implements suture.Service, draining closures until the
// context ends.
func (p *Pump) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-p.c:
			fn()
		}
	}
}
