package state

import (
	"sync"
	"time"
)

type Phase int

const (
	IDLE Phase = iota
	RENDERING
	DONE
	ERROR
)

func (p Phase) String() string {
	switch p {
	case IDLE:
		return "idle"
	case RENDERING:
		return "rendering"
	case DONE:
		return "done"
	case ERROR:
		return "error"
	}
	return "unknown"
}

type StageTiming struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration_ns"`
}

type RenderInfo struct {
	Seed     int64         `json:"seed"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Stage    string        `json:"stage,omitempty"` // stage in progress
	Files    []string      `json:"files,omitempty"`
	Timings  []StageTiming `json:"timings,omitempty"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished,omitzero"`
	Err      string        `json:"error,omitempty"`
}

type NetworkInfo struct {
	IP  string
	URL string
}

type State struct {
	Phase   Phase
	Render  RenderInfo
	Network NetworkInfo
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: IDLE}}
}

// Snapshot returns a copy that is safe to read while renders continue.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Render.Files = append([]string(nil), s.Render.Files...)
	s.Render.Timings = append([]StageTiming(nil), s.Render.Timings...)
	return s
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// BeginRender resets the render info and moves to RENDERING.
func (store *Store) BeginRender(seed int64, width, height int) {
	store.mu.Lock()
	store.state.Phase = RENDERING
	store.state.Render = RenderInfo{Seed: seed, Width: width, Height: height, Started: time.Now()}
	store.mu.Unlock()
}

// StageDone records a finished stage.
func (store *Store) StageDone(name string, d time.Duration) {
	store.mu.Lock()
	store.state.Render.Stage = ""
	store.state.Render.Timings = append(store.state.Render.Timings, StageTiming{Name: name, Duration: d})
	store.mu.Unlock()
}

func (store *Store) StageStarted(name string) {
	store.mu.Lock()
	store.state.Render.Stage = name
	store.mu.Unlock()
}

func (store *Store) FinishRender(files []string, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.Render.Finished = time.Now()
	store.state.Render.Stage = ""
	if err != nil {
		store.state.Phase = ERROR
		store.state.Render.Err = err.Error()
		store.state.Render.Files = nil
		return
	}
	store.state.Phase = DONE
	store.state.Render.Files = append([]string(nil), files...)
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}
