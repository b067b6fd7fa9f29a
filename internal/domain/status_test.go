package domain

import (
	"errors"
	"testing"
)

func TestParseBlockStatus(t *testing.T) {
	for _, in := range []string{"active", "Pending", " INACTIVE ", "reserved"} {
		s, err := ParseBlockStatus(in)
		if err != nil {
			t.Fatalf("ParseBlockStatus(%q): unexpected error: %v", in, err)
		}
		if c, err := s.Color(); err != nil || c == "" {
			t.Errorf("status %q: color %q, err %v", s, c, err)
		}
	}

	if _, err := ParseBlockStatus("relinquished"); !errors.Is(err, ErrUnknownBlockStatus) {
		t.Fatalf("err = %v, want ErrUnknownBlockStatus", err)
	}
}

func TestColorsAreDistinct(t *testing.T) {
	seen := map[string]BlockStatus{}
	for _, s := range []BlockStatus{BlockActive, BlockPending, BlockInactive, BlockReserved} {
		c, err := s.Color()
		if err != nil {
			t.Fatalf("status %q: %v", s, err)
		}
		if prev, ok := seen[c]; ok {
			t.Fatalf("status %q and %q share color %s", s, prev, c)
		}
		seen[c] = s
	}
}

func TestColorRejectsUnknownStatus(t *testing.T) {
	c, err := BlockStatus("relinquished").Color()
	if !errors.Is(err, ErrUnknownBlockStatus) || c != "" {
		t.Fatalf("Color() = %q, %v; want ErrUnknownBlockStatus", c, err)
	}
	if _, err := BlockStatus("").Color(); !errors.Is(err, ErrUnknownBlockStatus) {
		t.Fatalf("empty status: err = %v", err)
	}
}

func TestSizeTierFor(t *testing.T) {
	cases := map[int]SizeTier{
		1: TierSmall, 9: TierSmall, 10: TierMedium, 49: TierMedium,
		50: TierLarge, 99: TierLarge, 100: TierExtraLarge, 5000: TierExtraLarge,
	}
	for count, want := range cases {
		if got := SizeTierFor(count); got != want {
			t.Errorf("SizeTierFor(%d) = %s, want %s", count, got, want)
		}
	}
}
