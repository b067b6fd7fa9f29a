package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"contract-explorer-service/internal/adapters/explorerapi"
	"contract-explorer-service/internal/adapters/mapengine"
	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func box(minLon, minLat, maxLon, maxLat float64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}`,
		minLon, minLat, maxLon, minLat, maxLon, maxLat, minLon, maxLat, minLon, minLat,
	))
}

func block(id, status string, minLon, minLat float64) ports.BlockRecord {
	return ports.BlockRecord{
		BlockID:     id,
		BlockName:   "Block " + id,
		Status:      status,
		GeoJSON:     box(minLon, minLat, minLon+1, minLat+1),
		AreaSizeKm2: 100,
	}
}

// twoAreaFixture is a contractor with two areas holding five blocks in total.
func twoAreaFixture() []ports.AreaRecord {
	return []ports.AreaRecord{
		{
			AreaID:           "A2",
			AreaName:         "Eastern",
			GeoJSON:          box(-120, 10, -116, 14),
			TotalAreaSizeKm2: 2000,
			Blocks: []ports.BlockRecord{
				block("B4", "Pending", -120, 10),
				block("B5", "reserved", -118, 12),
			},
		},
		{
			AreaID:           "A1",
			AreaName:         "Western",
			GeoJSON:          box(-130, 10, -126, 14),
			TotalAreaSizeKm2: 3000,
			Blocks: []ports.BlockRecord{
				block("B1", "active", -130, 10),
				block("B2", "ACTIVE", -129, 11),
				block("B3", "inactive", -128, 12),
			},
		},
	}
}

func station(id, cruise, contractor string, lon, lat float64) domain.Station {
	return domain.Station{
		ID:           id,
		Name:         "Station " + id,
		CruiseID:     cruise,
		ContractorID: contractor,
		Longitude:    lon,
		Latitude:     lat,
	}
}

func stationFixture() []domain.Station {
	var out []domain.Station
	for i := 0; i < 5; i++ {
		out = append(out, station(fmt.Sprintf("S%d", i), "CR1", "C1", 10+float64(i)*0.01, 10+float64(i)*0.01))
	}
	for i := 0; i < 3; i++ {
		out = append(out, station(fmt.Sprintf("T%d", i), "CR2", "C2", 50+float64(i)*0.02, -20))
	}
	for i := 0; i < 4; i++ {
		out = append(out, station(fmt.Sprintf("U%d", i), "CR3", "C3", -100, 40+float64(i)*0.05))
	}
	out = append(out,
		station("V0", "CR4", "C1", 150, 60),
		station("V1", "CR4", "C2", -60, -40),
	)
	return out
}

type testSession struct {
	explorer *Explorer
	engine   *mapengine.Headless
	api      *explorerapi.MockExplorerAPI
}

func newTestSession(t *testing.T, stations []domain.Station) testSession {
	t.Helper()

	api := explorerapi.NewMockExplorerAPI()
	var engine *mapengine.Headless
	ex, err := NewExplorer(ExplorerDeps{
		API:      api,
		Stations: stations,
		Logger:   quietLogger(),
		NewEngine: func(sink ports.ViewportSink) ports.MapEngine {
			engine = mapengine.NewHeadless(sink)
			return engine
		},
	}, ExplorerOptions{
		Actuator:         ActuatorOptions{Padding: 20},
		LayerConcurrency: 4,
		ToastDuration:    time.Minute,
	})
	if err != nil {
		t.Fatalf("new explorer: %v", err)
	}
	return testSession{explorer: ex, engine: engine, api: api}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
