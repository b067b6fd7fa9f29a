package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"contract-explorer-service/internal/adapters/explorerapi"
	"contract-explorer-service/internal/adapters/mapengine"
	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

type staticStations []domain.Station

func (s staticStations) ListStations(context.Context) ([]domain.Station, error) { return s, nil }

type brokenStations struct{}

func (brokenStations) ListStations(context.Context) ([]domain.Station, error) {
	return nil, errors.New("disk on fire")
}

func testDeps() ExplorerDeps {
	return ExplorerDeps{
		API:    explorerapi.NewMockExplorerAPI(),
		Logger: quietLogger(),
		NewEngine: func(sink ports.ViewportSink) ports.MapEngine {
			return mapengine.NewHeadless(sink)
		},
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(staticStations(stationFixture()), testDeps(), ExplorerOptions{})
	ctx := context.Background()

	id, ex, err := r.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(ex.VisibleStations()) != len(stationFixture()) {
		t.Fatalf("session sees %d stations", len(ex.VisibleStations()))
	}
	got, err := r.Get(id)
	if err != nil || got != ex {
		t.Fatalf("get = %p, %v", got, err)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}

	if !r.Delete(id) || r.Delete(id) {
		t.Fatal("delete should succeed exactly once")
	}
	if _, err := r.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistrySweepsIdleSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(nil, testDeps(), ExplorerOptions{})
	r.now = func() time.Time { return now }
	ctx := context.Background()

	stale, _, _ := r.Create(ctx)
	now = now.Add(20 * time.Minute)
	fresh, _, _ := r.Create(ctx)
	now = now.Add(15 * time.Minute)

	if n := r.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, err := r.Get(stale); err == nil {
		t.Fatal("stale session survived")
	}
	if _, err := r.Get(fresh); err != nil {
		t.Fatalf("fresh session: %v", err)
	}
}

func TestRegistryReportsStationSourceErrors(t *testing.T) {
	r := NewRegistry(brokenStations{}, testDeps(), ExplorerOptions{})
	if _, _, err := r.Create(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if r.Len() != 0 {
		t.Fatal("failed session registered")
	}
}
