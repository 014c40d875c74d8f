package compare

import "context"

// NullStore is the no-persistence mode: lookups miss, writes discard, and
// upserts hand the record back without granting identity, which keeps price
// generation on the ephemeral path.
type NullStore struct{}

func NewNullStore() *NullStore { return &NullStore{} }

func (*NullStore) Ping(context.Context) error { return nil }

func (*NullStore) Kind() string { return "none" }

func (*NullStore) FindProductByKey(context.Context, string) (Product, bool, error) {
	return Product{}, false, nil
}

func (*NullStore) UpsertProduct(_ context.Context, p Product) (Product, bool, error) {
	return p, false, nil
}

func (*NullStore) ListPrices(context.Context, string) ([]PriceEntry, error) {
	return nil, nil
}

func (*NullStore) InsertPrices(context.Context, []PriceEntry) error { return nil }

func (*NullStore) InsertSearch(context.Context, SearchRecord) error { return nil }

func (*NullStore) RecentSearches(context.Context, int) ([]SearchRecord, error) {
	return nil, nil
}

func (*NullStore) Collections(context.Context) ([]string, error) { return nil, nil }
