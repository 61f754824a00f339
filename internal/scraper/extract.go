package scraper

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// percentPattern matches the first 1-3 digit run ahead of a percent sign
var percentPattern = regexp.MustCompile(`([0-9]{1,3})\s*%`)

// ParseDiscount extracts a discount percentage from free-form title
// text. Returns nil when no percentage pattern is present. The value is
// not range-checked: "999% off" parses to 999.
func ParseDiscount(title string) *int {
	m := percentPattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// Extractor turns a settled listing document into the canonical offer list
type Extractor struct {
	base      *url.URL
	selectors Selectors
}

// NewExtractor creates an extractor bound to the listing page URL
func NewExtractor(listingURL string, selectors Selectors) (*Extractor, error) {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{base: base, selectors: selectors}, nil
}

// ResolveLink resolves a possibly-relative href against the listing
// URL. A malformed href comes back unchanged; link resolution failures
// never abort the extraction. An empty href resolves to the listing URL
// itself.
func (e *Extractor) ResolveLink(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

// selText returns the trimmed text of the first node matched by sel
// under s, or "" when nothing matches.
func selText(s *goquery.Selection, sel string) string {
	found := s.Find(sel)
	if found.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(found.First().Text())
}

// selAttr reads an attribute from the first node matched by sel under
// s, "" when the node or the attribute is missing.
func selAttr(s *goquery.Selection, sel, name string) string {
	v, exists := s.Find(sel).First().Attr(name)
	if !exists {
		return ""
	}
	return strings.TrimSpace(v)
}

// Extract enumerates the offer cards in doc and returns the
// deduplicated, sorted offer list.
func (e *Extractor) Extract(doc *goquery.Document) []Offer {
	var offers []Offer
	doc.Find(e.selectors.CardList).Each(func(_ int, card *goquery.Selection) {
		offers = append(offers, e.extractCard(card))
	})
	return Canonicalize(offers)
}

// extractCard reads one card node. Unreadable fields degrade to empty
// strings rather than failing the card.
func (e *Extractor) extractCard(card *goquery.Selection) Offer {
	brand := selText(card, e.selectors.Brand)
	if brand == "" {
		brand = UnknownBrand
	}
	title := selText(card, e.selectors.Title)

	// Prefer the link inside the media area, else any link on the card
	href := selAttr(card, e.selectors.MediaLink, "href")
	if href == "" {
		href = selAttr(card, e.selectors.AnyLink, "href")
	}

	return Offer{
		Brand:           brand,
		DiscountPercent: ParseDiscount(title),
		Title:           title,
		Categories:      selText(card, e.selectors.Categories),
		Link:            e.ResolveLink(href),
	}
}

// Canonicalize deduplicates offers by (brand, title, link), first
// occurrence winning, and sorts them into snapshot order: discount
// descending with absent discounts after all real ones, then brand
// ascending. The sort is stable, so records with equal keys keep their
// extraction order.
func Canonicalize(offers []Offer) []Offer {
	type dedupKey struct {
		brand, title, link string
	}
	seen := make(map[dedupKey]struct{}, len(offers))
	uniq := make([]Offer, 0, len(offers))
	for _, o := range offers {
		k := dedupKey{o.Brand, o.Title, o.Link}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, o)
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		ri, rj := discountRank(uniq[i]), discountRank(uniq[j])
		if ri != rj {
			return ri > rj
		}
		return uniq[i].Brand < uniq[j].Brand
	})
	return uniq
}

// discountRank orders an absent discount below any real percentage,
// including zero.
func discountRank(o Offer) int {
	if o.DiscountPercent == nil {
		return -1
	}
	return *o.DiscountPercent
}
