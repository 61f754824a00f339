package snapshot

import "sjsage522/offerwatch/internal/scraper"

// Changes holds the snapshot delta between two runs
type Changes struct {
	Added   []scraper.Offer
	Removed []scraper.Offer
}

// Empty reports whether the delta contains no changes
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// diffKey identifies an offer across runs. It is coarser than the
// in-run dedup key: a record whose link or categories changed but whose
// brand and title did not is neither added nor removed.
type diffKey struct {
	brand, title string
}

// Diff compares the previous snapshot with the current one by
// (brand, title). Added keeps the current snapshot's sort order,
// removed keeps the previous snapshot's stored order.
func Diff(previous, current []scraper.Offer) Changes {
	prevKeys := keySet(previous)
	curKeys := keySet(current)

	var changes Changes
	for _, o := range current {
		if _, ok := prevKeys[diffKey{o.Brand, o.Title}]; !ok {
			changes.Added = append(changes.Added, o)
		}
	}
	for _, o := range previous {
		if _, ok := curKeys[diffKey{o.Brand, o.Title}]; !ok {
			changes.Removed = append(changes.Removed, o)
		}
	}
	return changes
}

func keySet(offers []scraper.Offer) map[diffKey]struct{} {
	set := make(map[diffKey]struct{}, len(offers))
	for _, o := range offers {
		set[diffKey{o.Brand, o.Title}] = struct{}{}
	}
	return set
}
