// Package api exposes the compositor's layout state over HTTP for
// debugging and scripting, in the spirit of swaymsg.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/waytiler/internal/build"
	"github.com/ItsNotGoodName/waytiler/internal/bus"
	"github.com/ItsNotGoodName/waytiler/internal/pump"
	"github.com/ItsNotGoodName/waytiler/internal/wsm"
	"github.com/ItsNotGoodName/waytiler/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	log     *slog.Logger
	address string
	handler http.Handler
}

func NewServer(log *slog.Logger, address string, p *pump.Pump, manager *wsm.Manager, events *bus.Hub[wsm.Event]) *Server {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(chiext.Logger())

	humaAPI := humachi.New(router, huma.DefaultConfig("waytiler", build.Current.Version))
	register(humaAPI, p, manager, events)

	return &Server{
		log:     log,
		address: address,
		handler: router,
	}
}

// String implements sutureext.Service.
func (s *Server) String() string {
	return "api.Server"
}

// Serve implements suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.handler}

	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe() }()

	s.log.Info("HTTP server listening", "address", s.address)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type buildOutput struct {
	Body build.Build
}

type workspacesOutput struct {
	Body []wsm.WorkspaceSnapshot
}

type workspaceInput struct {
	Num uint8 `path:"num" minimum:"1" maximum:"32"`
}

type workspaceOutput struct {
	Body wsm.WorkspaceSnapshot
}

type switchInput struct {
	Name string `path:"name"`
	Body struct {
		Workspace uint8 `json:"workspace" minimum:"1" maximum:"32"`
	}
}

type eventOutput struct {
	Body wsm.Event
}

func register(api huma.API, p *pump.Pump, manager *wsm.Manager, events *bus.Hub[wsm.Event]) {
	huma.Get(api, "/api/build", func(ctx context.Context, _ *struct{}) (*buildOutput, error) {
		return &buildOutput{Body: build.Current}, nil
	})

	huma.Get(api, "/api/workspaces", func(ctx context.Context, _ *struct{}) (*workspacesOutput, error) {
		out := &workspacesOutput{}
		err := p.Dispatch(ctx, func() {
			out.Body = manager.Snapshot()
		})
		return out, err
	})

	huma.Get(api, "/api/workspaces/{num}", func(ctx context.Context, input *workspaceInput) (*workspaceOutput, error) {
		out := &workspaceOutput{}
		found := false
		err := p.Dispatch(ctx, func() {
			for _, snap := range manager.Snapshot() {
				if snap.Num == input.Num {
					out.Body, found = snap, true
					return
				}
			}
		})
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, huma.Error404NotFound("workspace does not exist")
		}
		return out, nil
	})

	huma.Post(api, "/api/outputs/{name}/workspace", func(ctx context.Context, input *switchInput) (*struct{}, error) {
		found := false
		err := p.Dispatch(ctx, func() {
			out := manager.Registry().OutputByName(input.Name)
			if out == nil {
				return
			}
			found = true
			manager.SwitchWorkspace(out.Ref(), input.Body.Workspace)
		})
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, huma.Error404NotFound("output does not exist")
		}
		return nil, nil
	})

	// Long poll for the next state change.
	huma.Get(api, "/api/events/next", func(ctx context.Context, _ *struct{}) (*eventOutput, error) {
		c, unsubscribe := events.Subscribe()
		defer unsubscribe()

		select {
		case <-ctx.Done():
			return nil, huma.NewError(http.StatusRequestTimeout, "no event")
		case ev := <-c:
			return &eventOutput{Body: ev}, nil
		}
	})
}
