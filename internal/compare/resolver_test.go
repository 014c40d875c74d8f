package compare_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"PriceCompare/internal/compare"
)

func newTestService(store compare.Store, seed int64) *compare.Service {
	return &compare.Service{
		Store: store,
		Synth: compare.NewSynth(rand.NewSource(seed)),
		Log:   zap.NewNop(),
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" iPhone   15 ": "iphone 15",
		"iphone 15":     "iphone 15",
		"MacBook\tAir":  "macbook air",
		"  Sony  WH  ":  "sony wh",
		"AIRPODS":       "airpods",
	}
	for in, want := range cases {
		if got := compare.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveProductCreatesThenReuses(t *testing.T) {
	store := compare.NewMemStore()
	svc := newTestService(store, 1)
	ctx := context.Background()

	first, err := svc.ResolveProduct(ctx, " iPhone   15 ", "Apple", "Mobiles")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("persisted product missing id")
	}
	if first.NormalizedName != "iphone 15" {
		t.Fatalf("normalized name = %q", first.NormalizedName)
	}

	// A differently-spelled query with the same key must hit the same record,
	// and the existing record wins untouched.
	second, err := svc.ResolveProduct(ctx, "iphone 15", "NotApple", "Shoes")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resolved different products: %q vs %q", second.ID, first.ID)
	}
	if second.Brand != "Apple" || second.Category != "Mobiles" {
		t.Fatalf("existing record was modified: %+v", second)
	}
}

func TestResolveProductSeedsAllPlatforms(t *testing.T) {
	store := compare.NewMemStore()
	svc := newTestService(store, 2)
	ctx := context.Background()

	p, err := svc.ResolveProduct(ctx, "Dell XPS 13", "Dell", "Laptops")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	entries, err := store.ListPrices(ctx, p.ID)
	if err != nil {
		t.Fatalf("list prices: %v", err)
	}
	if len(entries) != len(compare.Platforms) {
		t.Fatalf("seeded %d entries, want %d", len(entries), len(compare.Platforms))
	}
	for _, e := range entries {
		if e.ProductID != p.ID {
			t.Fatalf("entry bound to %q, want %q", e.ProductID, p.ID)
		}
		if !strings.Contains(e.URL, "/search?q=dell+xps+13") {
			t.Fatalf("seeded URL missing normalized query: %q", e.URL)
		}
		if len(e.History) != 15 {
			t.Fatalf("history length = %d", len(e.History))
		}
	}
}

func TestResolveProductDefaultsCategory(t *testing.T) {
	svc := newTestService(compare.NewMemStore(), 3)

	p, err := svc.ResolveProduct(context.Background(), "mystery gadget", "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Category != "General" {
		t.Fatalf("category = %q, want General", p.Category)
	}
}

func TestResolvePricesStableOnceSeeded(t *testing.T) {
	store := compare.NewMemStore()
	svc := newTestService(store, 4)
	ctx := context.Background()

	p, err := svc.ResolveProduct(ctx, "Sony WH-1000XM5", "Sony", "Headphones")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	first, err := svc.ResolvePrices(ctx, p)
	if err != nil {
		t.Fatalf("first prices: %v", err)
	}
	second, err := svc.ResolvePrices(ctx, p)
	if err != nil {
		t.Fatalf("second prices: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("entry count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Platform != second[i].Platform || first[i].Price != second[i].Price {
			t.Fatalf("persisted prices regenerated: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestEphemeralResolutionRegenerates(t *testing.T) {
	svc := newTestService(compare.NewNullStore(), 5)
	ctx := context.Background()

	p, err := svc.ResolveProduct(ctx, "iPhone 15", "Apple", "Mobiles")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.ID != "" {
		t.Fatalf("ephemeral product has identity: %q", p.ID)
	}
	if p.Name != "iPhone 15" || p.Brand != "Apple" || p.Category != "Mobiles" {
		t.Fatalf("product shape not echoed: %+v", p)
	}

	first, err := svc.ResolvePrices(ctx, p)
	if err != nil {
		t.Fatalf("first prices: %v", err)
	}
	second, err := svc.ResolvePrices(ctx, p)
	if err != nil {
		t.Fatalf("second prices: %v", err)
	}

	if len(first) != len(compare.Platforms) || len(second) != len(compare.Platforms) {
		t.Fatalf("want all platforms, got %d and %d", len(first), len(second))
	}
	same := true
	for i := range first {
		if first[i].Price != second[i].Price {
			same = false
		}
	}
	if same {
		t.Fatalf("ephemeral prices did not regenerate")
	}
	for _, e := range first {
		if strings.Contains(e.URL, "/search?q=") {
			t.Fatalf("ephemeral entry carries seeded URL: %q", e.URL)
		}
	}
}

func TestConcurrentResolveCreatesOneProduct(t *testing.T) {
	store := compare.NewMemStore()
	svc := newTestService(store, 6)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.ResolveProduct(ctx, "Nike Air Max", "Nike", "Shoes")
			if err != nil {
				t.Errorf("resolve %d: %v", i, err)
				return
			}
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("concurrent resolves got different products: %q vs %q", id, ids[0])
		}
	}

	entries, err := store.ListPrices(ctx, ids[0])
	if err != nil {
		t.Fatalf("list prices: %v", err)
	}
	if len(entries) != len(compare.Platforms) {
		t.Fatalf("duplicate seeding: %d entries", len(entries))
	}
}

func TestFilterByPrice(t *testing.T) {
	entries := []compare.PriceEntry{
		{Platform: "a", Price: 500},
		{Platform: "b", Price: 1000},
		{Platform: "c", Price: 1500},
		{Platform: "d", Price: 2000},
		{Platform: "e", Price: 2500},
	}
	f := func(v float64) *float64 { return &v }

	if got := compare.FilterByPrice(entries, nil, nil); len(got) != 5 {
		t.Fatalf("unbounded filter dropped entries: %d", len(got))
	}
	got := compare.FilterByPrice(entries, f(1000), f(2000))
	if len(got) != 3 {
		t.Fatalf("inclusive [1000,2000]: got %d entries", len(got))
	}
	for _, e := range got {
		if e.Price < 1000 || e.Price > 2000 {
			t.Fatalf("entry %v escaped bounds", e.Price)
		}
	}
	if got := compare.FilterByPrice(entries, nil, f(999)); len(got) != 1 || got[0].Platform != "a" {
		t.Fatalf("max-only filter wrong: %+v", got)
	}
	if got := compare.FilterByPrice(entries, f(2600), nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestRecentSearchesFallbackSamples(t *testing.T) {
	svc := newTestService(compare.NewNullStore(), 7)

	items := svc.RecentSearches(context.Background(), 2)
	if len(items) != 2 {
		t.Fatalf("limit=2 fallback returned %d items", len(items))
	}
	if items[0].Query != "iPhone 15" {
		t.Fatalf("unexpected sample order: %+v", items[0])
	}

	items = svc.RecentSearches(context.Background(), 8)
	if len(items) != 3 {
		t.Fatalf("fallback beyond samples returned %d items", len(items))
	}
}

func TestRecentSearchesNewestFirst(t *testing.T) {
	store := compare.NewMemStore()
	svc := newTestService(store, 8)
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		if _, err := svc.Search(ctx, compare.SearchParams{Query: q}); err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
	}

	items := svc.RecentSearches(ctx, 2)
	if len(items) != 2 {
		t.Fatalf("limit=2 returned %d items", len(items))
	}
	if items[0].Query != "third" || items[1].Query != "second" {
		t.Fatalf("not newest-first: %q, %q", items[0].Query, items[1].Query)
	}
}

type failingSearchStore struct {
	compare.Store
}

func (failingSearchStore) InsertSearch(context.Context, compare.SearchRecord) error {
	return errors.New("write refused")
}

func TestSearchRecordFailureDoesNotSurface(t *testing.T) {
	svc := newTestService(failingSearchStore{compare.NewMemStore()}, 9)

	resp, err := svc.Search(context.Background(), compare.SearchParams{Query: "iPhone 15"})
	if err != nil {
		t.Fatalf("search failed on record write: %v", err)
	}
	if len(resp.Results) != 1 || len(resp.Results[0].Platforms) != len(compare.Platforms) {
		t.Fatalf("response degraded: %+v", resp)
	}
}
