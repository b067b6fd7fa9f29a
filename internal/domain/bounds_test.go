package domain

import "testing"

func TestContainsAcrossAntimeridian(t *testing.T) {
	b := GeoBounds{MinLat: -10, MaxLat: 10, MinLon: 170, MaxLon: 190}

	if !b.Contains(175, 0) {
		t.Error("expected 175 inside")
	}
	if !b.Contains(-175, 0) {
		t.Error("expected -175 inside via +360")
	}
	if b.Contains(-150, 0) {
		t.Error("expected -150 outside")
	}
	if b.Contains(175, 20) {
		t.Error("expected latitude 20 outside")
	}
}

func TestBoundsBuilder(t *testing.T) {
	var bb BoundsBuilder
	if _, ok := bb.Bounds(); ok {
		t.Fatal("empty builder reported bounds")
	}

	bb.Add(40, 10)
	bb.Add(60, 30)
	bb.AddBounds(GeoBounds{MinLat: -5, MaxLat: 0, MinLon: 45, MaxLon: 50})

	got, ok := bb.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	want := GeoBounds{MinLat: -5, MaxLat: 30, MinLon: 40, MaxLon: 60}
	if got != want {
		t.Fatalf("bounds = %+v, want %+v", got, want)
	}
}
