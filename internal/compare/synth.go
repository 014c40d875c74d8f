package compare

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	historyDays  = 14
	historyFloor = 100.0
	jitterSpread = 0.15

	basePriceMin = 499
	basePriceMax = 49999

	ratingMin = 3.5
	ratingMax = 5.0
)

// Synth produces all randomized price data. The source is injected so tests
// can fix the sequence; access to it is serialized because *rand.Rand is not
// safe for concurrent use.
type Synth struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewSynth(src rand.Source) *Synth {
	return &Synth{
		rnd: rand.New(src),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func NewDefaultSynth() *Synth {
	return NewSynth(rand.NewSource(time.Now().UnixNano()))
}

func (s *Synth) float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *Synth) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func (s *Synth) perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Perm(n)
}

// Uniform samples uniformly from [lo, hi).
func (s *Synth) Uniform(lo, hi float64) float64 {
	return lo + s.float64()*(hi-lo)
}

// Jitter samples uniformly within ±15% of base, rounded to 2 decimals.
func (s *Synth) Jitter(base float64) float64 {
	v := base * jitterSpread
	return round2(s.Uniform(base-v, base+v))
}

// History walks a price over days+1 daily points ending today, oldest first.
// Each point jitters the previous one and never drops below the floor.
func (s *Synth) History(base float64, days int) []PricePoint {
	now := s.now()
	pts := make([]PricePoint, 0, days+1)
	cur := base
	for i := days; i >= 0; i-- {
		cur = math.Max(historyFloor, s.Jitter(cur))
		pts = append(pts, PricePoint{Date: now.AddDate(0, 0, -i), Price: cur})
	}
	return pts
}

// BasePrice draws the shared per-product base all platform prices jitter from.
func (s *Synth) BasePrice() float64 {
	return s.Uniform(basePriceMin, basePriceMax)
}

// PlatformEntry synthesizes one platform's entry from a shared base price.
func (s *Synth) PlatformEntry(platform, url string, base float64) PriceEntry {
	price := s.Jitter(base)
	return PriceEntry{
		Platform:    platform,
		Price:       price,
		Currency:    Currency,
		URL:         url,
		Rating:      round1(s.Uniform(ratingMin, ratingMax)),
		Delivery:    s.pick(DeliveryOptions),
		LastUpdated: s.now(),
		History:     s.History(price, historyDays),
	}
}

func (s *Synth) pick(list []string) string {
	return list[s.intn(len(list))]
}

// platformHost turns "Tata Cliq" into "tatacliq" for URL building.
func platformHost(platform string) string {
	return strings.ToLower(strings.ReplaceAll(platform, " ", ""))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
