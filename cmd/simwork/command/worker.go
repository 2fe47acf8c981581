package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pixil98/go-service/service"
	"github.com/pixil98/simwork/internal/console"
	"github.com/pixil98/simwork/internal/demo"
	"github.com/pixil98/simwork/internal/progress"
	"github.com/pixil98/simwork/internal/scene"
)

// Builder wires the workers. Stop is called when the console session ends.
type Builder struct {
	Stop context.CancelFunc
	In   io.Reader
	Out  io.Writer
}

func (b *Builder) BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	cat, err := cfg.Storage.buildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	kv, err := cfg.Storage.buildKV()
	if err != nil {
		return nil, fmt.Errorf("creating progress storage: %w", err)
	}

	bus, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	loop, err := cfg.buildLoop()
	if err != nil {
		return nil, fmt.Errorf("creating frame loop: %w", err)
	}

	// The store and scene are only touched on the loop goroutine from here on.
	store := progress.NewStore(cat, kv, progress.WithPublisher(bus))

	canvas := cfg.Scene.buildCanvas(cat)
	sceneOpts, err := cfg.Scene.sceneOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring scene: %w", err)
	}
	sceneOpts = append(sceneOpts,
		scene.WithRenderer(canvas),
		scene.WithRoleSelector(store),
		scene.WithPublisher(bus),
	)
	sc := scene.NewScene(loop, sceneOpts...)

	var panelOpts []demo.PanelOpt
	if cfg.Console.Seed != nil {
		panelOpts = append(panelOpts, demo.WithSeed(*cfg.Console.Seed))
	}
	panel := demo.NewPanel(loop, store, sc, panelOpts...)

	rw := struct {
		io.Reader
		io.Writer
	}{b.In, b.Out}

	startTimeout := cfg.Nats.startTimeout()
	con := console.NewWorker(rw,
		func(rw io.ReadWriter) *console.Session {
			return console.NewSession(rw, loop, store,
				console.WithScene(sc),
				console.WithPanel(panel),
				console.WithMap(canvas),
				console.WithBus(bus),
				console.WithWidth(cfg.Console.Width),
			)
		},
		console.WithReady(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, startTimeout)
			defer cancel()
			return bus.WaitReady(ctx)
		}),
		console.WithOnExit(func() {
			if err := loop.Post(store.Close); err != nil {
				slog.Warn("closing progress store", "error", err)
			}
			if b.Stop != nil {
				b.Stop()
			}
		}),
	)

	return service.WorkerList{
		"loop":    loop,
		"nats":    bus,
		"console": con,
	}, nil
}
