package scraper_test

import (
	"testing"

	"textmill/internal/infra/scraper"
)

func TestScraperFactory_CreateScrapers(t *testing.T) {
	factory := scraper.NewScraperFactory()
	scrapers := factory.CreateScrapers()

	// entity.Corpus.Validate()が受け付ける全Kindをカバーすること
	kinds := []string{"book", "article", "feed", "csv", "file"}
	for _, kind := range kinds {
		s, ok := scrapers[kind]
		if !ok {
			t.Errorf("CreateScrapers() missing kind %q", kind)
			continue
		}
		if s == nil {
			t.Errorf("CreateScrapers()[%q] = nil", kind)
		}
	}

	if len(scrapers) != len(kinds) {
		t.Errorf("CreateScrapers() returned %d scrapers, want %d", len(scrapers), len(kinds))
	}
}
