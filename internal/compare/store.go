package compare

import "context"

// Store is the document-store capability the service runs against. All
// implementations must be safe for concurrent use. "No store configured" is a
// supported mode and is represented by NullStore rather than a nil handle.
type Store interface {
	Ping(ctx context.Context) error
	Kind() string

	FindProductByKey(ctx context.Context, key string) (Product, bool, error)

	// UpsertProduct inserts p keyed on its normalized name. If a record with
	// the same key already exists, including one created by a concurrent
	// upsert, that record is returned and created is false.
	UpsertProduct(ctx context.Context, p Product) (stored Product, created bool, err error)

	ListPrices(ctx context.Context, productID string) ([]PriceEntry, error)
	InsertPrices(ctx context.Context, entries []PriceEntry) error

	InsertSearch(ctx context.Context, rec SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error)

	// Collections lists collection (or table) names for the /test diagnostics.
	Collections(ctx context.Context) ([]string, error)
}
