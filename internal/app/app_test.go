package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render"
	"github.com/rook-computer/neoncity/internal/state"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{OutDir: filepath.Join(t.TempDir(), "ai-output"), Width: 128, Height: 96, Seed: 42, SeedSet: true}
}

func TestGenerateWritesBothVariants(t *testing.T) {
	store := state.NewStore()
	a := New(store, testConfig(t))
	var out bytes.Buffer
	a.Out = &out

	res, err := a.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || res.Seed != 42 {
		t.Fatalf("output = %+v", res)
	}
	for _, path := range res.Files {
		c, err := canvas.Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if c.Width() != 128 || c.Height() != 96 {
			t.Fatalf("%s is %dx%d", path, c.Width(), c.Height())
		}
	}
	enhanced, _ := canvas.Load(a.Config.EnhancedPath())
	if !enhanced.Equal(res.Enhanced) {
		t.Fatal("saved enhanced image differs from the in-memory one")
	}

	for _, st := range []string{"Painting dusk sky gradient", "Blending atmospheric glow", "Enhanced version saved to:"} {
		if !strings.Contains(out.String(), st) {
			t.Fatalf("progress output missing %q:\n%s", st, out.String())
		}
	}

	snap := store.Snapshot()
	if snap.Phase != state.DONE || len(snap.Render.Timings) != len(render.StageNames()) {
		t.Fatalf("state = %+v", snap)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(state.NewStore(), cfg).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cfg.OutDir = filepath.Join(t.TempDir(), "again")
	second, err := New(state.NewStore(), cfg).Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !first.Enhanced.Equal(second.Enhanced) {
		t.Fatal("same seed produced different images")
	}
}

func TestGenerateInvalidSizeWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Width = 0
	_, err := New(state.NewStore(), cfg).Generate(context.Background())
	if !errors.Is(err, render.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(cfg.OutDir); !os.IsNotExist(err) {
		t.Fatalf("output dir created: %v", err)
	}
}

func TestGenerateOutDirIsFile(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.OutDir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := state.NewStore()
	_, err := New(store, cfg).Generate(context.Background())
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("err = %v, want *fs.PathError", err)
	}
	if store.Snapshot().Phase != state.ERROR {
		t.Fatal("store not marked as failed")
	}
}

func TestGenerateRemovesBaseWhenEnhancedFails(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Join(cfg.EnhancedPath(), "blocker"), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := New(state.NewStore(), cfg).Generate(context.Background())
	if err == nil {
		t.Fatal("expected save error")
	}
	if _, err := os.Stat(cfg.BasePath()); !os.IsNotExist(err) {
		t.Fatalf("base file left behind: %v", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(state.NewStore(), testConfig(t)).Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

type fakePreview struct {
	shown   chan string
	stopped bool
}

func (p *fakePreview) Start(ctx context.Context) error { return nil }

func (p *fakePreview) Stop() error {
	p.stopped = true
	return nil
}

func (p *fakePreview) Show(img image.Image, caption string) error {
	p.shown <- caption
	return nil
}

type fakeServer struct{ started, stopped bool }

func (s *fakeServer) Start(ctx context.Context) error {
	s.started = true
	return nil
}

func (s *fakeServer) Stop() error {
	s.stopped = true
	return nil
}

func TestStartPreviewsAndServesUntilExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := New(state.NewStore(), testConfig(t))
	preview := &fakePreview{shown: make(chan string, 1)}
	server := &fakeServer{}
	a.Preview = preview
	a.Web = server

	done := make(chan error, 1)
	go func() {
		_, err := a.Start(ctx)
		done <- err
	}()

	select {
	case caption := <-preview.shown:
		if !strings.Contains(caption, EnhancedFileName) || !strings.Contains(caption, "seed 42") {
			t.Fatalf("caption = %q", caption)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("preview never shown")
	}

	a.Exit(nil)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Exit")
	}
	if !server.started || !server.stopped || !preview.stopped {
		t.Fatalf("lifecycle: server=%+v preview stopped=%v", server, preview.stopped)
	}
}

func TestStartWithoutExtrasReturns(t *testing.T) {
	out, err := New(state.NewStore(), testConfig(t)).Start(context.Background())
	if err != nil || len(out.Files) != 2 {
		t.Fatalf("out=%+v err=%v", out, err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvOutDir, "")
	t.Setenv(EnvSeed, "")
	t.Setenv(EnvWidth, "")
	t.Setenv(EnvHeight, "")
	cfg, err := DefaultConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutDir != DefaultOutDir || cfg.Width != 512 || cfg.Height != 512 || cfg.SeedSet {
		t.Fatalf("defaults = %+v", cfg)
	}

	t.Setenv(EnvOutDir, "/tmp/neon")
	t.Setenv(EnvSeed, "-7")
	t.Setenv(EnvWidth, "640")
	cfg, err = DefaultConfigFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutDir != "/tmp/neon" || cfg.Seed != -7 || !cfg.SeedSet || cfg.Width != 640 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.Options().Seed; got != -7 {
		t.Fatalf("options seed = %d", got)
	}

	t.Setenv(EnvHeight, "tall")
	if _, err := DefaultConfigFromEnv(); err == nil {
		t.Fatal("expected error for non-integer height")
	}
}

func TestFileLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("render", "stage %s", "sky")
	l.Errorf("app", "boom: %d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	var rec struct {
		Level     string `json:"level"`
		Component string `json:"component"`
		Message   string `json:"message"`
		Time      string `json:"time"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Level != "error" || rec.Component != "app" || rec.Message != "boom: 3" || rec.Time == "" {
		t.Fatalf("record = %+v", rec)
	}
}
