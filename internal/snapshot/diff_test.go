package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/offerwatch/internal/scraper"
)

func offer(brand, title, link string) scraper.Offer {
	return scraper.Offer{Brand: brand, Title: title, Link: link}
}

func TestDiffIdempotent(t *testing.T) {
	snapshots := [][]scraper.Offer{
		nil,
		{offer("Nike", "30% off Shoes", "https://a")},
		{offer("Nike", "30% off Shoes", "https://a"), offer("Adidas", "20% off Jackets", "https://b")},
	}

	for _, s := range snapshots {
		changes := Diff(s, s)
		assert.Empty(t, changes.Added)
		assert.Empty(t, changes.Removed)
		assert.True(t, changes.Empty())
	}
}

func TestDiffAdded(t *testing.T) {
	previous := []scraper.Offer{offer("Nike", "30% off Shoes", "https://a")}
	current := []scraper.Offer{
		offer("Nike", "30% off Shoes", "https://a"),
		offer("Adidas", "20% off Jackets", "https://b"),
	}

	changes := Diff(previous, current)
	require.Len(t, changes.Added, 1)
	assert.Equal(t, "Adidas", changes.Added[0].Brand)
	assert.Equal(t, "20% off Jackets", changes.Added[0].Title)
	assert.Empty(t, changes.Removed)
}

func TestDiffRemoved(t *testing.T) {
	previous := []scraper.Offer{
		offer("Nike", "30% off Shoes", "https://a"),
		offer("Levi's", "Final sale", "https://c"),
	}
	current := []scraper.Offer{offer("Nike", "30% off Shoes", "https://a")}

	changes := Diff(previous, current)
	assert.Empty(t, changes.Added)
	require.Len(t, changes.Removed, 1)
	assert.Equal(t, "Levi's", changes.Removed[0].Brand)
}

func TestDiffIgnoresLinkAndCategoryDrift(t *testing.T) {
	previous := []scraper.Offer{
		{Brand: "Nike", Title: "30% off Shoes", Link: "https://old", Categories: "Shoes"},
	}
	current := []scraper.Offer{
		{Brand: "Nike", Title: "30% off Shoes", Link: "https://new", Categories: "Footwear"},
	}

	changes := Diff(previous, current)
	assert.True(t, changes.Empty(), "link/category drift must not show up as added or removed")
}

func TestDiffPreservesOrder(t *testing.T) {
	previous := []scraper.Offer{
		offer("A", "gone first", ""),
		offer("Kept", "still here", ""),
		offer("B", "gone second", ""),
	}
	current := []scraper.Offer{
		offer("New1", "added first", ""),
		offer("Kept", "still here", ""),
		offer("New2", "added second", ""),
	}

	changes := Diff(previous, current)
	require.Len(t, changes.Added, 2)
	assert.Equal(t, "New1", changes.Added[0].Brand)
	assert.Equal(t, "New2", changes.Added[1].Brand)
	require.Len(t, changes.Removed, 2)
	assert.Equal(t, "A", changes.Removed[0].Brand)
	assert.Equal(t, "B", changes.Removed[1].Brand)
}
