package state

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRenderLifecycle(t *testing.T) {
	store := NewStore()
	if got := store.Snapshot().Phase; got != IDLE {
		t.Fatalf("initial phase = %v", got)
	}

	store.BeginRender(42, 512, 256)
	store.StageStarted("sky")
	if s := store.Snapshot(); s.Phase != RENDERING || s.Render.Stage != "sky" {
		t.Fatalf("during render: %+v", s)
	}
	store.StageDone("sky", 3*time.Millisecond)
	store.FinishRender([]string{"a.png", "b.png"}, nil)

	s := store.Snapshot()
	if s.Phase != DONE || s.Render.Seed != 42 || s.Render.Width != 512 || s.Render.Height != 256 {
		t.Fatalf("after render: %+v", s)
	}
	if len(s.Render.Timings) != 1 || s.Render.Timings[0].Name != "sky" {
		t.Fatalf("timings = %+v", s.Render.Timings)
	}
	if s.Render.Finished.Before(s.Render.Started) {
		t.Fatal("finished before started")
	}
}

func TestFinishRenderError(t *testing.T) {
	store := NewStore()
	store.BeginRender(1, 8, 8)
	store.FinishRender([]string{"partial.png"}, errors.New("disk full"))
	s := store.Snapshot()
	if s.Phase != ERROR || s.Render.Err != "disk full" || len(s.Render.Files) != 0 {
		t.Fatalf("state = %+v", s)
	}
}

func TestBeginRenderResets(t *testing.T) {
	store := NewStore()
	store.BeginRender(1, 8, 8)
	store.FinishRender(nil, errors.New("x"))
	store.BeginRender(2, 8, 8)
	if s := store.Snapshot(); s.Render.Err != "" || s.Render.Seed != 2 {
		t.Fatalf("state not reset: %+v", s)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	store := NewStore()
	store.BeginRender(1, 8, 8)
	store.FinishRender([]string{"a.png"}, nil)
	s := store.Snapshot()
	s.Render.Files[0] = "mutated"
	if store.Snapshot().Render.Files[0] != "a.png" {
		t.Fatal("snapshot aliases store")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	store := NewStore()
	store.BeginRender(1, 8, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.StageDone("x", time.Millisecond)
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
	if n := len(store.Snapshot().Render.Timings); n != 8 {
		t.Fatalf("timings = %d", n)
	}
}

func TestPhaseString(t *testing.T) {
	if RENDERING.String() != "rendering" || Phase(99).String() != "unknown" {
		t.Fatal("phase names")
	}
}
