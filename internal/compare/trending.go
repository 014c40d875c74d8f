package compare

import (
	"net/url"
	"time"
)

var (
	trendingNames = []string{
		"iPhone 15", "Samsung Galaxy S23", "Sony WH-1000XM5",
		"Nike Air Max", "Dell XPS 13", "MacBook Air M2",
	}
	// Apple appears twice to bias the draw.
	trendingBrands     = []string{"Apple", "Samsung", "Sony", "Nike", "Dell", "Apple"}
	trendingCategories = []string{"Mobiles", "Headphones", "Shoes", "Laptops"}
)

const (
	trendingBaseMin      = 999
	trendingBaseMax      = 149999
	trendingMaxPlatforms = 4
)

// TrendingDeals synthesizes limit illustrative deals. Nothing touches the
// store; every call produces fresh data.
func (s *Service) TrendingDeals(limit int) []TrendingDeal {
	deals := make([]TrendingDeal, 0, limit)

	for i := 0; i < limit; i++ {
		name := s.Synth.pick(trendingNames)
		base := s.Synth.Uniform(trendingBaseMin, trendingBaseMax)

		k := trendingMaxPlatforms
		if k > len(Platforms) {
			k = len(Platforms)
		}
		prices := make([]TrendingPrice, 0, k)
		for _, j := range s.Synth.perm(len(Platforms))[:k] {
			platform := Platforms[j]
			prices = append(prices, TrendingPrice{
				Platform:    platform,
				Price:       s.Synth.Jitter(base),
				Currency:    Currency,
				URL:         "https://" + platformHost(platform) + ".com/search?q=" + url.QueryEscape(name),
				LastUpdated: time.Now().UTC(),
			})
		}

		var lowest *TrendingPrice
		for j := range prices {
			if lowest == nil || prices[j].Price < lowest.Price {
				lowest = &prices[j]
			}
		}

		deals = append(deals, TrendingDeal{
			Name:      name,
			Brand:     s.Synth.pick(trendingBrands),
			Category:  s.Synth.pick(trendingCategories),
			Image:     s.Synth.pick(SampleImages),
			Platforms: prices,
			Lowest:    lowest,
		})
	}

	return deals
}
