package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render"
	"github.com/rook-computer/neoncity/internal/state"
	"github.com/rook-computer/neoncity/internal/system"
	"github.com/rook-computer/neoncity/internal/web"
)

type App struct {
	Store  *state.Store
	Config Config
	Logger Logger
	// Out receives the human-readable progress lines.
	Out io.Writer

	// Preview and Web are optional. When either is set, Start keeps
	// running after the files are written until the context ends or Exit
	// is called.
	Preview render.Previewer
	Web     web.Server

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, cfg Config) *App {
	return &App{Store: store, Config: cfg, Logger: NoopLogger{}, Out: io.Discard, exitCh: make(chan error, 1)}
}

// Output describes one finished CLI render.
type Output struct {
	Seed     int64
	Files    []string
	Timings  []render.StageTiming
	Enhanced *canvas.Canvas
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Generate renders one city and writes both variants into the output
// directory. On failure no advertised file is left behind.
func (app *App) Generate(ctx context.Context) (Output, error) {
	opts := app.Config.Options()
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := opts.Validate(); err != nil {
		return Output{}, err
	}

	app.Store.BeginRender(opts.Seed, opts.Width, opts.Height)
	out, err := app.generate(opts)
	app.Store.FinishRender(out.Files, err)
	if err != nil {
		app.Logger.Errorf("app", "render seed=%d failed: %v", opts.Seed, err)
		return Output{}, err
	}
	app.Logger.Infof("app", "render seed=%d wrote %v", opts.Seed, out.Files)
	return out, nil
}

func (app *App) generate(opts render.Options) (Output, error) {
	fmt.Fprintf(app.Out, "Creating cyberpunk city artwork (%dx%d, seed %d)...\n", opts.Width, opts.Height, opts.Seed)
	if err := os.MkdirAll(app.Config.OutDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output directory: %w", err)
	}

	r := render.New(opts)
	r.Progress = func(st render.Stage) {
		fmt.Fprintf(app.Out, "  %s...\n", st.Description)
		app.Store.StageStarted(st.Name)
		app.Logger.Infof("render", "stage %s", st.Name)
	}
	res, err := r.RenderVariants(rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return Output{}, err
	}
	for _, t := range res.Timings {
		app.Store.StageDone(t.Name, t.Duration)
	}

	base, enhanced := app.Config.BasePath(), app.Config.EnhancedPath()
	if err := canvas.Save(res.Base, base); err != nil {
		return Output{}, err
	}
	fmt.Fprintf(app.Out, "Cyberpunk city artwork saved to: %s\n", base)
	if err := canvas.Save(res.Enhanced, enhanced); err != nil {
		if rmErr := os.Remove(base); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			app.Logger.Errorf("app", "remove %s after failed save: %v", base, rmErr)
		}
		return Output{}, err
	}
	fmt.Fprintf(app.Out, "Enhanced version saved to: %s\n", enhanced)

	return Output{
		Seed:     opts.Seed,
		Files:    []string{base, enhanced},
		Timings:  res.Timings,
		Enhanced: res.Enhanced,
	}, nil
}

// Start generates the images, then shows the preview and serves the gallery
// when configured, blocking until ctx ends or Exit is called.
func (app *App) Start(ctx context.Context) (Output, error) {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	out, err := app.Generate(ctx)
	if err != nil {
		return Output{}, err
	}
	if app.Preview == nil && app.Web == nil {
		return out, nil
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("web", "start: %v", err)
			return out, err
		}
		defer app.Web.Stop()
	}

	if app.Preview != nil {
		if err := app.Preview.Start(ctx); err != nil {
			app.Logger.Errorf("app", "preview start error: %v", err)
			return out, err
		}
		defer app.Preview.Stop()

		restore := system.EnterGraphics(app.Logger)
		defer restore()

		caption := fmt.Sprintf("%s  seed %d", filepath.Base(app.Config.EnhancedPath()), out.Seed)
		if err := app.Preview.Show(out.Enhanced, caption); err != nil {
			app.Logger.Errorf("app", "preview show error: %v", err)
			return out, err
		}
		system.StartExitOnKey(ctx, app.Logger, func() { app.Exit(nil) })
	}

	select {
	case <-ctx.Done():
		return out, nil
	case err = <-app.exitCh:
		return out, err
	}
}
