package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/waytiler/internal/api"
	"github.com/ItsNotGoodName/waytiler/internal/build"
	"github.com/ItsNotGoodName/waytiler/internal/bus"
	"github.com/ItsNotGoodName/waytiler/internal/config"
	"github.com/ItsNotGoodName/waytiler/internal/core"
	"github.com/ItsNotGoodName/waytiler/internal/entity"
	"github.com/ItsNotGoodName/waytiler/internal/pump"
	"github.com/ItsNotGoodName/waytiler/internal/wsm"
	"github.com/ItsNotGoodName/waytiler/internal/xpreview"
	"github.com/ItsNotGoodName/waytiler/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
)

type Options struct {
	Debug      bool   `doc:"enable debug"`
	Config     string `doc:"config file" default:".waytiler.yaml"`
	DumpConfig bool   `doc:"print the resolved config and exit"`
	Preview    bool   `doc:"render layouts in an X11 window"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}

			if err := xpreview.NormalizeConfig(store); err != nil {
				return err
			}

			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}
			cfg = cfg.Normalize(slog.Default())

			if options.DumpConfig {
				pp.Println(cfg)
				return nil
			}

			bindings, err := config.ResolveBindings(cfg.Bindings)
			if err != nil {
				return err
			}

			events := bus.NewHub[wsm.Event]()
			reg := entity.NewRegistry(slog.Default())
			manager := wsm.NewManager(slog.Default(), reg, cfg, bindings, events.Send)
			p := pump.New()

			super := sutureext.NewSimple("waytiler")
			sutureext.Add(super, p)
			sutureext.Add(super, api.NewServer(
				slog.Default(),
				core.Address(cfg.HTTP.Host, cfg.HTTP.Port),
				p, manager, events,
			))
			if options.Preview || cfg.Preview.Enable {
				sutureext.Add(super, xpreview.New(slog.Default(), p, manager, cfg.Preview.Views))
			}

			return super.Serve(ctx)
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
