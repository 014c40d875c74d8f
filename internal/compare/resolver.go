package compare

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCategory = "General"

// Service implements the search core: product resolution, price resolution,
// trending synthesis, and best-effort search logging over a Store.
type Service struct {
	Store Store
	Synth *Synth
	Log   *zap.Logger
}

// Normalize returns the dedup key for a product name: lowercased, trimmed,
// with runs of whitespace collapsed to single spaces.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// ResolveProduct finds the product for name by normalized key, creating and
// seeding it on first sight. An existing record wins untouched; the incoming
// brand and category never update it.
func (s *Service) ResolveProduct(ctx context.Context, name, brand, category string) (Product, error) {
	key := Normalize(name)

	if p, ok, err := s.Store.FindProductByKey(ctx, key); err != nil {
		return Product{}, err
	} else if ok {
		return p, nil
	}

	if category == "" {
		category = defaultCategory
	}
	now := time.Now().UTC()
	p := Product{
		Name:           name,
		NormalizedName: key,
		Brand:          brand,
		Category:       category,
		Image:          s.Synth.pick(SampleImages),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	p, created, err := s.Store.UpsertProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}

	// Seeding belongs to whoever actually created the record. A store that
	// grants no identity gets no seeds either: prices stay ephemeral.
	if !created || p.ID == "" {
		return p, nil
	}

	if err := s.Store.InsertPrices(ctx, s.seedEntries(p)); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ResolvePrices returns the persisted entries for product, seeding them if
// none exist yet. A product without identity gets fresh ephemeral entries on
// every call; that path deliberately stays distinct from seeding (no
// persistence, bare platform URL) to preserve the degraded-mode behavior.
func (s *Service) ResolvePrices(ctx context.Context, p Product) ([]PriceEntry, error) {
	if p.ID == "" {
		return s.ephemeralEntries(), nil
	}

	entries, err := s.Store.ListPrices(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	entries = s.seedEntries(p)
	if err := s.Store.InsertPrices(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) seedEntries(p Product) []PriceEntry {
	base := s.Synth.BasePrice()
	entries := make([]PriceEntry, 0, len(Platforms))
	for _, platform := range Platforms {
		u := "https://" + platformHost(platform) + ".com/search?q=" + url.QueryEscape(p.NormalizedName)
		e := s.Synth.PlatformEntry(platform, u, base)
		e.ProductID = p.ID
		e.CreatedAt = e.LastUpdated
		e.UpdatedAt = e.LastUpdated
		entries = append(entries, e)
	}
	return entries
}

func (s *Service) ephemeralEntries() []PriceEntry {
	base := s.Synth.BasePrice()
	entries := make([]PriceEntry, 0, len(Platforms))
	for _, platform := range Platforms {
		entries = append(entries, s.Synth.PlatformEntry(platform, "https://"+platformHost(platform)+".com", base))
	}
	return entries
}

type SearchParams struct {
	Query    string
	Category string
	Brand    string
	PriceMin *float64
	PriceMax *float64
}

// Search resolves the product, resolves and filters its prices, assembles the
// single-result response, and logs the search best-effort.
func (s *Service) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	p, err := s.ResolveProduct(ctx, params.Query, params.Brand, params.Category)
	if err != nil {
		return SearchResponse{}, err
	}

	entries, err := s.ResolvePrices(ctx, p)
	if err != nil {
		return SearchResponse{}, err
	}
	entries = FilterByPrice(entries, params.PriceMin, params.PriceMax)

	id := p.ID
	if id == "" {
		// Transient products still present an id on the wire, a fresh one per
		// call, matching the record-less mode of operation.
		id = "p_" + uuid.NewString()
	}

	resp := SearchResponse{
		Query: params.Query,
		Results: []ProductResult{{
			ID:        id,
			Name:      p.Name,
			Brand:     p.Brand,
			Category:  p.Category,
			Image:     p.Image,
			Platforms: entries,
		}},
		Filters: SearchFilters{
			Category: optString(params.Category),
			Brand:    optString(params.Brand),
			PriceMin: params.PriceMin,
			PriceMax: params.PriceMax,
		},
		GeneratedAt: time.Now().UTC(),
	}

	s.recordSearch(ctx, params, len(entries))
	return resp, nil
}

// recordSearch appends a SearchRecord. Failures are logged and swallowed;
// they must never influence the search response.
func (s *Service) recordSearch(ctx context.Context, params SearchParams, count int) {
	rec := SearchRecord{
		Query:        params.Query,
		Brand:        params.Brand,
		Category:     params.Category,
		PriceMin:     params.PriceMin,
		PriceMax:     params.PriceMax,
		ResultsCount: count,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.InsertSearch(ctx, rec); err != nil && s.Log != nil {
		s.Log.Warn("search record write failed", zap.Error(err), zap.String("query", params.Query))
	}
}

var sampleRecent = []SearchRecord{
	{Query: "iPhone 15", Brand: "Apple", Category: "Mobiles", ResultsCount: 6},
	{Query: "Sony WH-1000XM5", Brand: "Sony", Category: "Headphones", ResultsCount: 5},
	{Query: "MacBook Air", Brand: "Apple", Category: "Laptops", ResultsCount: 6},
}

// RecentSearches lists the newest persisted searches, falling back to fixed
// sample data when nothing is stored or the read fails.
func (s *Service) RecentSearches(ctx context.Context, limit int) []SearchRecord {
	items, err := s.Store.RecentSearches(ctx, limit)
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("recent searches read failed", zap.Error(err))
		}
		items = nil
	}

	if len(items) == 0 {
		if limit > len(sampleRecent) {
			limit = len(sampleRecent)
		}
		items = sampleRecent[:limit]
	}
	return items
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
