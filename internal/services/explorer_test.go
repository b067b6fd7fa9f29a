package services

import (
	"context"
	"errors"
	"testing"

	"contract-explorer-service/internal/domain"
	"contract-explorer-service/internal/ports"
)

func TestApplyFilterNarrowsStationsAndFrames(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.api.Areas["C1"] = twoAreaFixture()
	ctx := context.Background()
	s.explorer.Resize(1024, 768)

	res, err := s.explorer.ApplyFilter(ctx, []string{"C1"})
	if err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if res.Stations != 6 || len(s.explorer.VisibleStations()) != 6 {
		t.Fatalf("visible stations = %d, want 6", res.Stations)
	}
	if !res.Started || !res.Framed {
		t.Fatalf("result = %+v, want a started and framed load", res)
	}
	if res.Layers.BlockCount() != 5 {
		t.Fatalf("blocks = %d, want 5", res.Layers.BlockCount())
	}
	if s.explorer.UserNavigated() {
		t.Fatal("framing counted as user navigation")
	}

	res, err = s.explorer.ApplyFilter(ctx, nil)
	if err != nil {
		t.Fatalf("clear filter: %v", err)
	}
	if res.Stations != len(stationFixture()) {
		t.Fatalf("unfiltered stations = %d, want %d", res.Stations, len(stationFixture()))
	}
	if len(res.Layers.Areas) != 0 {
		t.Fatalf("cleared filter kept %d areas", len(res.Layers.Areas))
	}
}

func TestApplyFilterDoesNotFightTheUser(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.api.Areas["C1"] = twoAreaFixture()
	s.api.Areas["C2"] = []ports.AreaRecord{{AreaID: "X", GeoJSON: box(50, -21, 51, -19)}}
	ctx := context.Background()
	s.explorer.Resize(1024, 768)

	user := domain.Viewport{Longitude: -30, Latitude: 5, Zoom: 5}
	s.explorer.SetViewport(user)

	res, err := s.explorer.ApplyFilter(ctx, []string{"C1", "C2"})
	if err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if res.Framed {
		t.Fatal("camera moved after the user navigated")
	}
	if got := s.explorer.Viewport().Viewport; got != user {
		t.Fatalf("viewport = %+v, want the user's %+v", got, user)
	}

	if _, err := s.explorer.ResetFilters(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	res, err = s.explorer.ApplyFilter(ctx, []string{"C2"})
	if err != nil {
		t.Fatalf("apply filter after reset: %v", err)
	}
	if !res.Framed {
		t.Fatal("camera did not frame results after reset")
	}
}

func TestApplyFilterWhileLoadingChangesNothing(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.api.Areas["C1"] = twoAreaFixture()
	s.api.Areas["C2"] = []ports.AreaRecord{{AreaID: "X", GeoJSON: box(50, -21, 51, -19)}}
	gate := make(chan struct{})
	s.api.Gate = gate
	ctx := context.Background()
	s.explorer.Resize(1024, 768)
	s.explorer.SetViewport(domain.Viewport{Zoom: 0})

	done := make(chan FilterResult, 1)
	go func() {
		res, err := s.explorer.ApplyFilter(ctx, []string{"C1"})
		if err != nil {
			t.Errorf("first filter: %v", err)
		}
		done <- res
	}()
	waitFor(t, func() bool { return s.api.Calls("areas", "C1") == 1 })

	res, err := s.explorer.ApplyFilter(ctx, []string{"C2"})
	if err != nil {
		t.Fatalf("second filter: %v", err)
	}
	if res.Started {
		t.Fatal("second filter started while the first was loading")
	}
	if got := s.explorer.Filter(); len(got) != 1 || got[0] != "C1" {
		t.Fatalf("filter = %v, want [C1]", got)
	}
	for _, st := range s.explorer.VisibleStations() {
		if st.ContractorID != "C1" {
			t.Fatalf("visible station %s belongs to %s", st.ID, st.ContractorID)
		}
	}

	close(gate)
	first := <-done
	if !first.Started || len(first.Layers.Areas) != 2 {
		t.Fatalf("first filter = %+v, want two C1 areas", first)
	}
	if n := s.api.Calls("areas", "C2"); n != 0 {
		t.Fatalf("C2 fetched %d times by a rejected filter", n)
	}
	clusters, _ := s.explorer.Clusters()
	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	if total != 6 {
		t.Fatalf("clusters hold %d stations, want the 6 of C1", total)
	}

	res, err = s.explorer.ApplyFilter(ctx, []string{"C2"})
	if err != nil {
		t.Fatalf("retry filter: %v", err)
	}
	if !res.Started || len(res.Layers.Areas) != 1 || res.Layers.Areas[0].ContractorID != "C2" {
		t.Fatalf("retry filter = %+v, want the C2 area", res)
	}
}

func TestClustersFollowViewport(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.explorer.Resize(1024, 768)
	s.explorer.SetViewport(domain.Viewport{Zoom: 0})

	clusters, seq := s.explorer.Clusters()
	if seq == 0 {
		t.Fatal("no recompute after viewport change")
	}
	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	if total != len(stationFixture()) {
		t.Fatalf("clusters hold %d stations, want %d", total, len(stationFixture()))
	}

	if _, err := s.explorer.ApplyFilter(context.Background(), []string{"C3"}); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	clusters, _ = s.explorer.Clusters()
	total = 0
	for _, c := range clusters {
		total += c.Count
	}
	if total != 4 {
		t.Fatalf("filtered clusters hold %d stations, want 4", total)
	}
}

func TestClickClusterFliesToExpansionZoom(t *testing.T) {
	s := newTestSession(t, stationFixture())
	ctx := context.Background()
	s.explorer.Resize(1024, 768)
	s.explorer.SetViewport(domain.Viewport{Zoom: 0})
	if _, err := s.explorer.ResetFilters(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	clusters, _ := s.explorer.Clusters()
	var target domain.Cluster
	for _, c := range clusters {
		if !c.IsPoint() {
			target = c
			break
		}
	}
	if target.Count == 0 {
		t.Fatal("no cluster at zoom 0")
	}

	if err := s.explorer.ClickCluster(ctx, target.ID); err != nil {
		t.Fatalf("click cluster: %v", err)
	}
	if v := s.explorer.Viewport().Viewport; v.Zoom != float64(target.ExpansionZoom) {
		t.Fatalf("zoom = %v, want expansion zoom %d", v.Zoom, target.ExpansionZoom)
	}
	if s.explorer.UserNavigated() {
		t.Fatal("cluster zoom counted as user navigation")
	}
}

func TestClickSinglePointSelectsStation(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.explorer.Resize(1024, 768)
	s.explorer.SetViewport(domain.Viewport{Longitude: 150, Latitude: 60, Zoom: 16})

	clusters, _ := s.explorer.Clusters()
	if len(clusters) != 1 || !clusters[0].IsPoint() {
		t.Fatalf("clusters at zoom 16 = %+v", clusters)
	}
	if err := s.explorer.ClickFeature(context.Background(), FeatureClick{Layer: LayerStations, ID: "missing"}); !errors.Is(err, ErrUnknownFeature) {
		t.Fatalf("err = %v, want ErrUnknownFeature", err)
	}

	if err := s.explorer.ClickCluster(context.Background(), clusters[0].ID); err != nil {
		t.Fatalf("click point: %v", err)
	}
	st := s.explorer.State()
	if st.Kind != SelectionStation || st.Station.ID != clusters[0].Station.ID {
		t.Fatalf("state = %+v, want station %s", st, clusters[0].Station.ID)
	}
}

func TestClickFeatureDispatch(t *testing.T) {
	s := newTestSession(t, stationFixture())
	s.api.Areas["C1"] = twoAreaFixture()
	s.api.Blocks["B3"] = domain.BlockAnalytics{BlockID: "B3"}
	ctx := context.Background()
	s.explorer.Resize(1024, 768)
	if _, err := s.explorer.ApplyFilter(ctx, []string{"C1"}); err != nil {
		t.Fatalf("apply filter: %v", err)
	}

	if err := s.explorer.ClickFeature(ctx, FeatureClick{Layer: "ocean"}); !errors.Is(err, ErrUnknownLayer) {
		t.Fatalf("err = %v, want ErrUnknownLayer", err)
	}

	if err := s.explorer.ClickFeature(ctx, FeatureClick{Layer: LayerAreas, ID: "A1"}); err != nil {
		t.Fatalf("click area: %v", err)
	}
	if p := s.explorer.State().Popup; p == nil || p.FeatureID != "A1" {
		t.Fatalf("area popup = %+v", p)
	}

	if err := s.explorer.ClickFeature(ctx, FeatureClick{Layer: LayerBlocks, ID: "B3"}); err != nil {
		t.Fatalf("click block: %v", err)
	}
	if st := s.explorer.State(); st.Kind != SelectionBlockAnalytics {
		t.Fatalf("kind = %v, want blockAnalytics", st.Kind)
	}

	if err := s.explorer.Hover(FeatureClick{Layer: LayerBlocks, ID: "B1", Lon: -129.5, Lat: 10.5}); err != nil {
		t.Fatalf("hover block: %v", err)
	}
	if p := s.explorer.State().Popup; p == nil || p.Properties["status"] != "active" {
		t.Fatalf("hover popup = %+v", p)
	}
	if err := s.explorer.Hover(FeatureClick{Layer: LayerBlocks}); err != nil {
		t.Fatalf("hover out: %v", err)
	}
	if s.explorer.State().Popup != nil {
		t.Fatal("popup kept after hover out")
	}
}

func TestSelectCruiseByID(t *testing.T) {
	s := newTestSession(t, stationFixture())
	ctx := context.Background()

	if err := s.explorer.SelectCruise(ctx, "CR404"); !errors.Is(err, ErrUnknownFeature) {
		t.Fatalf("err = %v, want ErrUnknownFeature", err)
	}
	if err := s.explorer.SelectCruise(ctx, "CR2"); err != nil {
		t.Fatalf("select cruise: %v", err)
	}
	st := s.explorer.State()
	if st.Kind != SelectionCruise || !st.PanelOpen {
		t.Fatalf("state = %+v", st)
	}
	if v := s.explorer.Viewport().Viewport; v.Longitude < 50 || v.Longitude > 50.04 {
		t.Fatalf("viewport = %+v, want centered on cruise CR2", v)
	}
}
