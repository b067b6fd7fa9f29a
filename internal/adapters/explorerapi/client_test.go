package explorerapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"contract-explorer-service/internal/ports"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", "secret", WithRetry(4, time.Millisecond))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestContractorAreasDecodesFlexibleFields(t *testing.T) {
	body := `[
	  {"areaId": 7, "areaName": "North", "geoJson": "{\"type\":\"Point\",\"coordinates\":[1,2]}",
	   "centerLat": "2.5", "centerLon": null, "totalAreaSizeKm2": 1200,
	   "blocks": [{"blockId": "B-1", "blockName": "One", "status": "active",
	               "geoJson": {"type":"Point","coordinates":[1,2]}, "centerLat": 2, "centerLon": 1, "areaSizeKm2": 10}]}
	]`

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/MapFilter/contractor-areas-geojson/C%201" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("Authorization = %q, want secret", got)
		}
		w.Write([]byte(body))
	}))

	areas, err := c.ContractorAreas(context.Background(), "C 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(areas) != 1 || len(areas[0].Blocks) != 1 {
		t.Fatalf("got %d areas, want 1 with 1 block", len(areas))
	}
	a := areas[0]
	if a.AreaID != "7" {
		t.Fatalf("area id = %q, want 7", a.AreaID)
	}
	if a.CenterLat == nil || *a.CenterLat != 2.5 {
		t.Fatalf("center lat = %v, want 2.5", a.CenterLat)
	}
	if a.CenterLon != nil {
		t.Fatalf("center lon = %v, want nil", *a.CenterLon)
	}
	if a.Blocks[0].BlockID != "B-1" || a.Blocks[0].Status != "active" {
		t.Fatalf("block = %+v", a.Blocks[0])
	}
}

func TestContractorAreasToleratesBadNumbers(t *testing.T) {
	body := `[
	  {"areaId": "A1", "geoJson": {"type":"Point","coordinates":[1,2]},
	   "centerLat": "n/a", "centerLon": " 3.5 ", "totalAreaSizeKm2": "lots",
	   "blocks": [{"blockId": 1, "status": "active", "geoJson": {"type":"Point","coordinates":[1,2]},
	               "centerLat": true, "centerLon": "NaN", "areaSizeKm2": "12.5"}]},
	  {"areaId": "A2", "geoJson": {"type":"Point","coordinates":[5,6]}, "centerLat": 6, "centerLon": 5}
	]`

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	areas, err := c.ContractorAreas(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("got %d areas, want 2", len(areas))
	}
	a := areas[0]
	if a.CenterLat != nil || a.TotalAreaSizeKm2 != 0 {
		t.Fatalf("bad numbers kept: lat %v size %v", a.CenterLat, a.TotalAreaSizeKm2)
	}
	if a.CenterLon == nil || *a.CenterLon != 3.5 {
		t.Fatalf("center lon = %v, want 3.5", a.CenterLon)
	}
	b := a.Blocks[0]
	if b.CenterLat != nil || b.CenterLon != nil || b.AreaSizeKm2 != 12.5 {
		t.Fatalf("block = %+v", b)
	}
	if areas[1].CenterLat == nil || *areas[1].CenterLat != 6 {
		t.Fatalf("second area center = %v, want 6", areas[1].CenterLat)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"summary": {"totalAreaKm2": 75000.5, "totalStations": "42", "cruises": 3}}`))
	}))

	s, err := c.ContractorSummary(context.Background(), "C2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	if s.ContractorID != "C2" || s.TotalAreaKm2 != 75000.5 || s.TotalStations != 42 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Fields["cruises"] != float64(3) {
		t.Fatalf("extra fields not kept: %+v", s.Fields)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such block", http.StatusNotFound)
	}))

	_, err := c.BlockAnalytics(context.Background(), "B9")

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 StatusError", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := c.BlockAnalytics(context.Background(), "B1"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 4 {
		t.Fatalf("calls = %d, want 4", calls.Load())
	}
}

func TestSummaryWithoutSummaryObjectFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	if _, err := c.ContractorSummary(context.Background(), "C3"); err == nil {
		t.Fatal("expected error for missing summary")
	}
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-url", "/relative"} {
		if _, err := NewClient(in, ""); err == nil {
			t.Errorf("NewClient(%q): expected error", in)
		}
	}
}

func TestStatusErrorMatchesUpstream(t *testing.T) {
	var err error = fmt.Errorf("select block: %w", &StatusError{Code: 502, Body: "bad gateway"})
	if !errors.Is(err, ports.ErrUpstream) {
		t.Fatal("status error does not match ErrUpstream")
	}
}
