package compare

import "time"

// Product is a catalog record. NormalizedName is the dedup key: lookups go
// through it, never through the display name or the id.
type Product struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string    `json:"name" bson:"name"`
	NormalizedName string    `json:"-" bson:"normalized_name"`
	Brand          string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Category       string    `json:"category,omitempty" bson:"category,omitempty"`
	Image          string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt      time.Time `json:"-" bson:"created_at"`
	UpdatedAt      time.Time `json:"-" bson:"updated_at"`
}

type PricePoint struct {
	Date  time.Time `json:"date" bson:"date"`
	Price float64   `json:"price" bson:"price"`
}

// PriceEntry is one platform's price for a product, with a trailing 15-day
// history (oldest first). The wire shape exposes only the platform fields;
// storage bookkeeping stays internal.
type PriceEntry struct {
	ID          string       `json:"-" bson:"_id,omitempty"`
	ProductID   string       `json:"-" bson:"product_id,omitempty"`
	Platform    string       `json:"platform" bson:"platform"`
	Price       float64      `json:"price" bson:"price"`
	Currency    string       `json:"currency" bson:"currency"`
	URL         string       `json:"url,omitempty" bson:"url,omitempty"`
	Rating      float64      `json:"rating,omitempty" bson:"rating,omitempty"`
	Delivery    string       `json:"delivery,omitempty" bson:"delivery,omitempty"`
	LastUpdated time.Time    `json:"last_updated" bson:"last_updated"`
	History     []PricePoint `json:"history" bson:"history"`
	CreatedAt   time.Time    `json:"-" bson:"created_at,omitempty"`
	UpdatedAt   time.Time    `json:"-" bson:"updated_at,omitempty"`
}

// SearchRecord is an append-only log entry, one per search call.
type SearchRecord struct {
	ID           string    `json:"-" bson:"_id,omitempty"`
	Query        string    `json:"query" bson:"query"`
	Brand        string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Category     string    `json:"category,omitempty" bson:"category,omitempty"`
	PriceMin     *float64  `json:"price_min,omitempty" bson:"price_min,omitempty"`
	PriceMax     *float64  `json:"price_max,omitempty" bson:"price_max,omitempty"`
	ResultsCount int       `json:"results_count" bson:"results_count"`
	CreatedAt    time.Time `json:"created_at,omitzero" bson:"created_at"`
}

type ProductResult struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Brand     string       `json:"brand,omitempty"`
	Category  string       `json:"category,omitempty"`
	Image     string       `json:"image,omitempty"`
	Platforms []PriceEntry `json:"platforms"`
}

// SearchFilters echoes the request filters back verbatim, nulls included.
type SearchFilters struct {
	Category *string  `json:"category"`
	Brand    *string  `json:"brand"`
	PriceMin *float64 `json:"price_min"`
	PriceMax *float64 `json:"price_max"`
}

type SearchResponse struct {
	Query       string          `json:"query"`
	Results     []ProductResult `json:"results"`
	Filters     SearchFilters   `json:"filters"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type TrendingPrice struct {
	Platform    string    `json:"platform"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	URL         string    `json:"url"`
	LastUpdated time.Time `json:"last_updated"`
}

type TrendingDeal struct {
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	Platforms []TrendingPrice `json:"platforms"`
	Lowest    *TrendingPrice  `json:"lowest"`
}
