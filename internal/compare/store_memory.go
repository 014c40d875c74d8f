package compare

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemStore keeps the three collections in process memory. It backs the tests
// and the STORE=memory mode; data lives until the process exits.
type MemStore struct {
	mu       sync.RWMutex
	products map[string]Product // keyed by normalized name
	prices   map[string][]PriceEntry
	searches []SearchRecord
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: map[string]Product{},
		prices:   map[string][]PriceEntry{},
	}
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Kind() string { return "memory" }

func (s *MemStore) FindProductByKey(_ context.Context, key string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[key]
	return p, ok, nil
}

func (s *MemStore) UpsertProduct(_ context.Context, p Product) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.products[p.NormalizedName]; ok {
		return existing, false, nil
	}

	p.ID = "p_" + uuid.NewString()
	s.products[p.NormalizedName] = p
	return p, true, nil
}

func (s *MemStore) ListPrices(_ context.Context, productID string) ([]PriceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.prices[productID]
	out := make([]PriceEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemStore) InsertPrices(_ context.Context, entries []PriceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = "pe_" + uuid.NewString()
		}
		s.prices[e.ProductID] = append(s.prices[e.ProductID], e)
	}
	return nil
}

func (s *MemStore) InsertSearch(_ context.Context, rec SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = "s_" + uuid.NewString()
	}
	s.searches = append(s.searches, rec)
	return nil
}

func (s *MemStore) RecentSearches(_ context.Context, limit int) ([]SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Appends arrive in creation order, so newest-first is a reverse walk.
	out := make([]SearchRecord, 0, limit)
	for i := len(s.searches) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.searches[i])
	}
	return out, nil
}

func (s *MemStore) Collections(context.Context) ([]string, error) {
	return []string{"product", "priceentry", "searchrecord"}, nil
}
