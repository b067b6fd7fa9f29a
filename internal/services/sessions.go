package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"contract-explorer-service/internal/platform/obs"
	"contract-explorer-service/internal/ports"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type session struct {
	explorer *Explorer
	lastSeen time.Time
}

// Registry owns the live map sessions. Stations are read from the source
// once per session.
type Registry struct {
	deps     ExplorerDeps
	opts     ExplorerOptions
	stations ports.StationSource
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRegistry(stations ports.StationSource, deps ExplorerDeps, opts ExplorerOptions) *Registry {
	return &Registry{
		deps:     deps,
		opts:     opts,
		stations: stations,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

func (r *Registry) Create(ctx context.Context) (id string, ex *Explorer, err error) {
	defer obs.Time(ctx, "create_session")(&err)

	deps := r.deps
	if r.stations != nil {
		deps.Stations, err = r.stations.ListStations(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("create session: %w", err)
		}
	}

	id = uuid.NewString()
	if deps.Logger != nil {
		deps.Logger = deps.Logger.With("session_id", id)
	}
	ex, err = NewExplorer(deps, r.opts)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	r.mu.Lock()
	r.sessions[id] = &session{explorer: ex, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	obs.ActiveSessions.Set(float64(n))
	return id, ex, nil
}

// Get returns a session and marks it as used.
func (r *Registry) Get(id string) (*Explorer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	s.lastSeen = r.now()
	return s.explorer, nil
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	obs.ActiveSessions.Set(float64(n))
	return ok
}

// Sweep drops sessions unused for longer than idle and reports how many.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	dropped := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	obs.ActiveSessions.Set(float64(n))
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
