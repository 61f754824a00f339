package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingURL = "https://www.mcarthurglen.com/en/outlets/ca/designer-outlet-vancouver/offers/"

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(listingURL, DefaultSelectors())
	require.NoError(t, err)
	return e
}

func TestParseDiscount(t *testing.T) {
	testCases := []struct {
		title    string
		expected *int
	}{
		{"Up to 40% off", intPtr(40)},
		{"50%off", intPtr(50)},
		{"No discount info", nil},
		{"999% off", intPtr(999)}, // not clamped
		{"Save 25 % today", intPtr(25)},
		{"", nil},
		{"% off", nil},
	}

	for _, tc := range testCases {
		got := ParseDiscount(tc.title)
		if tc.expected == nil {
			assert.Nil(t, got, "title: %q", tc.title)
		} else {
			require.NotNil(t, got, "title: %q", tc.title)
			assert.Equal(t, *tc.expected, *got, "title: %q", tc.title)
		}
	}
}

func TestResolveLink(t *testing.T) {
	e := newTestExtractor(t)

	assert.Equal(t,
		"https://www.mcarthurglen.com/en/brands/nike/",
		e.ResolveLink("/en/brands/nike/"))

	assert.Equal(t,
		"https://other.example.com/deal",
		e.ResolveLink("https://other.example.com/deal"))

	// An empty href resolves to the listing page itself
	assert.Equal(t, listingURL, e.ResolveLink(""))

	// Malformed hrefs come back unchanged
	assert.Equal(t, "https://bad host/x", e.ResolveLink("https://bad host/x"))
}

func TestExtractCards(t *testing.T) {
	html := `<html><body>
		<div data-testid="offer-card-molecule">
			<span data-testid="offer-card-brand">Nike</span>
			<h3 data-testid="offer-card-title">Up to 40% off footwear</h3>
			<div data-testid="offer-card-categories">Shoes, Sport</div>
			<div data-testid="offer-card-media"><a href="/en/offers/nike/">media</a></div>
			<a href="/should/not/win">other</a>
		</div>
		<div data-testid="offer-card-molecule">
			<span data-testid="offer-card-brand">Adidas</span>
			<h3 data-testid="offer-card-title">20% off jackets</h3>
			<a href="/en/offers/adidas/">link</a>
		</div>
		<div data-testid="offer-card-molecule">
			<h3 data-testid="offer-card-title">Member exclusives</h3>
		</div>
	</body></html>`

	e := newTestExtractor(t)
	offers := e.Extract(parseDoc(t, html))
	require.Len(t, offers, 3)

	// Sorted by discount descending, so Nike (40) before Adidas (20),
	// and the discount-less card last.
	assert.Equal(t, "Nike", offers[0].Brand)
	require.NotNil(t, offers[0].DiscountPercent)
	assert.Equal(t, 40, *offers[0].DiscountPercent)
	assert.Equal(t, "Shoes, Sport", offers[0].Categories)
	// The media-area link wins over the loose anchor
	assert.Equal(t, "https://www.mcarthurglen.com/en/offers/nike/", offers[0].Link)

	assert.Equal(t, "Adidas", offers[1].Brand)
	require.NotNil(t, offers[1].DiscountPercent)
	assert.Equal(t, 20, *offers[1].DiscountPercent)
	assert.Equal(t, "https://www.mcarthurglen.com/en/offers/adidas/", offers[1].Link)

	// Missing brand defaults to Unknown; missing categories stay empty,
	// and the missing link degrades to the listing URL
	assert.Equal(t, UnknownBrand, offers[2].Brand)
	assert.Nil(t, offers[2].DiscountPercent)
	assert.Empty(t, offers[2].Categories)
	assert.Equal(t, listingURL, offers[2].Link)
}

func TestExtractDeduplicates(t *testing.T) {
	card := `<div data-testid="offer-card-molecule">
		<span data-testid="offer-card-brand">Levi's</span>
		<h3 data-testid="offer-card-title">30% off denim</h3>
		<a href="/en/offers/levis/">link</a>
	</div>`
	html := "<html><body>" + card + card + card + "</body></html>"

	e := newTestExtractor(t)
	offers := e.Extract(parseDoc(t, html))
	require.Len(t, offers, 1)
	assert.Equal(t, "Levi's", offers[0].Brand)
}

func TestExtractIsDeterministic(t *testing.T) {
	html := `<html><body>
		<div data-testid="offer-card-molecule">
			<span data-testid="offer-card-brand">Puma</span>
			<h3 data-testid="offer-card-title">25% off</h3>
			<a href="/a">a</a>
		</div>
		<div data-testid="offer-card-molecule">
			<span data-testid="offer-card-brand">Puma</span>
			<h3 data-testid="offer-card-title">25% off everything</h3>
			<a href="/b">b</a>
		</div>
		<div data-testid="offer-card-molecule">
			<span data-testid="offer-card-brand">Asics</span>
			<h3 data-testid="offer-card-title">25% off running</h3>
			<a href="/c">c</a>
		</div>
	</body></html>`

	e := newTestExtractor(t)
	first := e.Extract(parseDoc(t, html))
	second := e.Extract(parseDoc(t, html))
	assert.Equal(t, first, second)

	// Equal discount sorts by brand ascending
	require.Len(t, first, 3)
	assert.Equal(t, "Asics", first[0].Brand)
	assert.Equal(t, "Puma", first[1].Brand)
	assert.Equal(t, "Puma", first[2].Brand)
}

func TestCanonicalizeOrdering(t *testing.T) {
	offers := []Offer{
		{Brand: "Zara", Title: "no discount here"},
		{Brand: "Boss", DiscountPercent: intPtr(0), Title: "0% financing"},
		{Brand: "Gap", DiscountPercent: intPtr(70), Title: "70% off"},
		{Brand: "Coach", DiscountPercent: intPtr(70), Title: "70% off bags"},
		{Brand: "Aldo", Title: "new arrivals"},
	}

	got := Canonicalize(offers)
	require.Len(t, got, 5)

	// Adjacent pairs satisfy the snapshot ordering invariant
	for i := 0; i+1 < len(got); i++ {
		r1, r2 := got[i], got[i+1]
		switch {
		case r1.DiscountPercent != nil && r2.DiscountPercent == nil:
			// present sorts before absent
		case r1.DiscountPercent == nil && r2.DiscountPercent == nil:
			assert.LessOrEqual(t, r1.Brand, r2.Brand)
		case r1.DiscountPercent != nil && r2.DiscountPercent != nil:
			if *r1.DiscountPercent == *r2.DiscountPercent {
				assert.LessOrEqual(t, r1.Brand, r2.Brand)
			} else {
				assert.Greater(t, *r1.DiscountPercent, *r2.DiscountPercent)
			}
		default:
			t.Fatalf("absent discount sorted before present: %v then %v", r1, r2)
		}
	}

	assert.Equal(t, "Coach", got[0].Brand)
	assert.Equal(t, "Gap", got[1].Brand)
	// Zero percent is a real percentage and sorts above absent ones
	assert.Equal(t, "Boss", got[2].Brand)
	assert.Equal(t, "Aldo", got[3].Brand)
	assert.Equal(t, "Zara", got[4].Brand)
}

func TestCanonicalizeFirstOccurrenceWins(t *testing.T) {
	offers := []Offer{
		{Brand: "Nike", Title: "30% off", Link: "https://a", Categories: "first", DiscountPercent: intPtr(30)},
		{Brand: "Nike", Title: "30% off", Link: "https://a", Categories: "second", DiscountPercent: intPtr(30)},
		{Brand: "Nike", Title: "30% off", Link: "https://b", Categories: "different link", DiscountPercent: intPtr(30)},
	}

	got := Canonicalize(offers)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Categories)
}

func intPtr(n int) *int {
	return &n
}
