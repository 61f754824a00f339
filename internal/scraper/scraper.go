package scraper

import (
	"context"
	"io"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"
)

// FetchFunc returns the settled listing page markup. The browser
// renderer and the static HTTP fallback both satisfy it.
type FetchFunc func(ctx context.Context) (io.Reader, error)

// Scraper fetches the listing page and extracts the canonical offer list
type Scraper struct {
	extractor *Extractor
	fetchFunc FetchFunc
	log       *logger.Logger
}

// NewScraper creates a scraper for the given listing URL
func NewScraper(listingURL string, selectors Selectors, fetch FetchFunc) (*Scraper, error) {
	extractor, err := NewExtractor(listingURL, selectors)
	if err != nil {
		return nil, errors.NewConfiguration("invalid listing URL", err)
	}
	return &Scraper{
		extractor: extractor,
		fetchFunc: fetch,
		log:       logger.ForScraper(),
	}, nil
}

// FetchOffers retrieves the page and returns the extracted offers. A
// failure to load or parse the page itself is fatal for the run; there
// is no retry here.
func (s *Scraper) FetchOffers(ctx context.Context) ([]Offer, error) {
	body, err := s.fetchFunc(ctx)
	if err != nil {
		return nil, errors.NewNavigation("failed to load listing page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing("failed to parse listing page", err)
	}

	offers := s.extractor.Extract(doc)
	s.log.Debug().Int("count", len(offers)).Msg("Extracted offer cards")
	return offers, nil
}
