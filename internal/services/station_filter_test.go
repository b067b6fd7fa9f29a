package services

import "testing"

func TestFilterStationsCounts(t *testing.T) {
	all := stationFixture()

	if got := FilterStations(all, nil); len(got) != len(all) {
		t.Fatalf("unfiltered = %d, want %d", len(got), len(all))
	}
	if got := FilterStations(all, []string{"C1"}); len(got) != 6 {
		t.Fatalf("C1 = %d, want 6", len(got))
	}
	if got := FilterStations(all, []string{"C2", "C3", " C2 "}); len(got) != 8 {
		t.Fatalf("C2+C3 = %d, want 8", len(got))
	}
	if got := FilterStations(all, []string{"nobody"}); len(got) != 0 {
		t.Fatalf("unknown contractor = %d, want 0", len(got))
	}
}

func TestStationsOfCruise(t *testing.T) {
	got := StationsOfCruise(stationFixture(), "CR4")
	if len(got) != 2 || got[0].ID != "V0" || got[1].ID != "V1" {
		t.Fatalf("CR4 = %+v", got)
	}
}
