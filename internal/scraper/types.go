package scraper

// UnknownBrand is substituted when a card's brand field is unreadable.
// Only the brand gets this treatment; title, categories and link stay
// empty when they cannot be read.
const UnknownBrand = "Unknown"

// Offer represents one promotional offer scraped from the listing page
type Offer struct {
	Brand           string `json:"brand"`
	DiscountPercent *int   `json:"discount_percent"`
	Title           string `json:"title"`
	Categories      string `json:"categories"`
	Link            string `json:"link"`
}

// Selectors contains CSS selectors for the offer-card elements.
// MediaLink is tried before AnyLink when locating the card's target.
type Selectors struct {
	CardList   string
	Brand      string
	Title      string
	Categories string
	MediaLink  string
	AnyLink    string
}

// DefaultSelectors returns the selector set for the outlet offers page
func DefaultSelectors() Selectors {
	return Selectors{
		CardList:   `[data-testid="offer-card-molecule"]`,
		Brand:      `[data-testid="offer-card-brand"]`,
		Title:      `[data-testid="offer-card-title"]`,
		Categories: `[data-testid="offer-card-categories"]`,
		MediaLink:  `[data-testid="offer-card-media"] a[href]`,
		AnyLink:    `a[href]`,
	}
}
