package compare

// FilterByPrice keeps entries whose price lies within the inclusive bounds.
// A nil bound imposes no constraint. Filtering never feeds back into
// resolution or seeding; it only trims the assembled response.
func FilterByPrice(entries []PriceEntry, min, max *float64) []PriceEntry {
	if min == nil && max == nil {
		return entries
	}

	out := make([]PriceEntry, 0, len(entries))
	for _, e := range entries {
		if min != nil && e.Price < *min {
			continue
		}
		if max != nil && e.Price > *max {
			continue
		}
		out = append(out, e)
	}
	return out
}
