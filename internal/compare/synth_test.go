package compare_test

import (
	"math"
	"math/rand"
	"testing"

	"PriceCompare/internal/compare"
)

func TestJitterWithinBounds(t *testing.T) {
	s := compare.NewSynth(rand.NewSource(1))

	const base = 1000.0
	for i := 0; i < 1000; i++ {
		v := s.Jitter(base)
		if v < 850 || v > 1150 {
			t.Fatalf("jitter out of ±15%% bounds: %v", v)
		}
		if cents := v * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Fatalf("jitter not rounded to 2 decimals: %v", v)
		}
	}
}

func TestJitterDeterministicForSeed(t *testing.T) {
	a := compare.NewSynth(rand.NewSource(42))
	b := compare.NewSynth(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		if av, bv := a.Jitter(5000), b.Jitter(5000); av != bv {
			t.Fatalf("same seed diverged at step %d: %v != %v", i, av, bv)
		}
	}
}

func TestHistoryShape(t *testing.T) {
	s := compare.NewSynth(rand.NewSource(7))

	for _, days := range []int{0, 1, 14, 30} {
		pts := s.History(5000, days)
		if len(pts) != days+1 {
			t.Fatalf("days=%d: got %d points, want %d", days, len(pts), days+1)
		}
		for i, p := range pts {
			if p.Price < 100.0 {
				t.Fatalf("days=%d: point %d below floor: %v", days, i, p.Price)
			}
			if i > 0 && !pts[i-1].Date.Before(p.Date) {
				t.Fatalf("days=%d: dates not strictly increasing at %d", days, i)
			}
		}
	}
}

func TestHistoryFloorsLowBase(t *testing.T) {
	s := compare.NewSynth(rand.NewSource(3))

	for _, p := range s.History(1, 14) {
		if p.Price < 100.0 {
			t.Fatalf("price below floor: %v", p.Price)
		}
	}
}

func TestHistoryIsRandomWalk(t *testing.T) {
	s := compare.NewSynth(rand.NewSource(9))

	pts := s.History(10000, 14)
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1].Price, pts[i].Price
		lo, hi := prev*0.85, prev*1.15
		if cur < math.Max(100.0, lo)-0.01 || cur > hi+0.01 {
			t.Fatalf("point %d (%v) not within ±15%% of previous (%v)", i, cur, prev)
		}
	}
}

func TestPlatformEntryFields(t *testing.T) {
	s := compare.NewSynth(rand.NewSource(11))

	const base = 20000.0
	e := s.PlatformEntry("Amazon", "https://amazon.com", base)

	if e.Platform != "Amazon" || e.URL != "https://amazon.com" {
		t.Fatalf("identity fields wrong: %+v", e)
	}
	if e.Currency != compare.Currency {
		t.Fatalf("currency = %q", e.Currency)
	}
	if e.Price < base*0.85 || e.Price > base*1.15 {
		t.Fatalf("price %v not within ±15%% of base", e.Price)
	}
	if e.Rating < 3.5 || e.Rating > 5.0 {
		t.Fatalf("rating out of range: %v", e.Rating)
	}
	if tenths := e.Rating * 10; math.Abs(tenths-math.Round(tenths)) > 1e-6 {
		t.Fatalf("rating not rounded to 1 decimal: %v", e.Rating)
	}
	delivery := false
	for _, d := range compare.DeliveryOptions {
		if e.Delivery == d {
			delivery = true
		}
	}
	if !delivery {
		t.Fatalf("unknown delivery %q", e.Delivery)
	}
	if len(e.History) != 15 {
		t.Fatalf("history length = %d, want 15", len(e.History))
	}
	if e.LastUpdated.IsZero() {
		t.Fatalf("last_updated not set")
	}
}
