package catalog

// MergeFeed builds the homepage feed from a popular list and a normal list.
// Any product whose ID appears in popular is dropped from normal, popular is
// truncated to popularCap and the deduplicated normal list to totalCap, then
// the two are concatenated popular-first. Relative order within each source
// list is preserved.
func MergeFeed(popular, normal []Product, popularCap, totalCap int) []Product {
	seen := make(map[string]struct{}, len(popular))
	for _, p := range popular {
		seen[p.ID] = struct{}{}
	}

	deduped := make([]Product, 0, len(normal))
	for _, p := range normal {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		deduped = append(deduped, p)
	}

	feed := append([]Product(nil), truncate(popular, popularCap)...)
	return append(feed, truncate(deduped, totalCap)...)
}

func truncate(products []Product, limit int) []Product {
	if limit < 0 {
		return nil
	}
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
