package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ingest"

	"github.com/mmcdole/gofeed"
	"jaytaylor.com/html2text"
)

// FeedScraper turns an RSS/Atom feed into one document per entry, in feed
// order. HTML entry bodies are reduced to plain text.
type FeedScraper struct {
	parser *gofeed.Parser
}

// NewFeedScraper creates a new FeedScraper.
func NewFeedScraper() *FeedScraper {
	return &FeedScraper{parser: gofeed.NewParser()}
}

// Scrape parses the raw feed XML and emits each entry as a document.
// SourceConfig.MaxItems caps the number of entries taken from the top of
// the feed (0 means no cap).
func (f *FeedScraper) Scrape(_ context.Context, raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	feed, err := f.parser.ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %v", ingest.ErrScrapeFailed, err)
	}

	items := feed.Items
	if corpus.SourceConfig != nil && corpus.SourceConfig.MaxItems > 0 && len(items) > corpus.SourceConfig.MaxItems {
		items = items[:corpus.SourceConfig.MaxItems]
	}

	docs := make([]ingest.RawDocument, 0, len(items))
	for i, it := range items {
		// Content優先、なければDescriptionを使用
		content := it.Content
		if content == "" {
			content = it.Description
		}

		text, err := html2text.FromString(content, html2text.Options{TextOnly: true})
		if err != nil {
			// 変換失敗時は元のテキストをそのまま使う
			slog.Debug("html2text conversion failed for feed entry, keeping raw content",
				slog.Int64("corpus_id", corpus.ID),
				slog.Int("entry", i),
				slog.Any("error", err))
			text = content
		}

		text = strings.TrimSpace(text)
		if text == "" {
			slog.Debug("skipping feed entry with empty content",
				slog.Int64("corpus_id", corpus.ID),
				slog.Int("entry", i),
				slog.String("title", it.Title))
			continue
		}

		docs = append(docs, ingest.RawDocument{
			Title: strings.TrimSpace(it.Title),
			Text:  text,
		})
	}

	return docs, nil
}
