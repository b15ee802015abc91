package scraper

import (
	"textmill/internal/usecase/ingest"
)

// ScraperFactory creates scraper instances for the supported corpus kinds.
// It provides a centralized way to instantiate scrapers with consistent configuration.
type ScraperFactory struct{}

// NewScraperFactory creates a new ScraperFactory.
func NewScraperFactory() *ScraperFactory {
	return &ScraperFactory{}
}

// CreateScrapers creates and returns a map of all available scrapers.
// The keys are corpus kinds ("book", "article", "feed", "csv", "file")
// and the values are the corresponding Scraper implementations.
//
// This map is used by the ingest service to route sources to the
// appropriate scraper.
func (f *ScraperFactory) CreateScrapers() map[string]ingest.Scraper {
	return map[string]ingest.Scraper{
		"book":    NewBookScraper(),
		"article": NewArticleScraper(),
		"feed":    NewFeedScraper(),
		"csv":     NewCSVScraper(),
		"file":    NewFileScraper(),
	}
}
