package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ingest"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"jaytaylor.com/html2text"
)

// ArticleScraper extracts the readable main text from an HTML page using
// the Mozilla Readability algorithm, with a goquery+html2text fallback for
// pages Readability cannot handle. An article always yields exactly one
// document.
type ArticleScraper struct{}

// NewArticleScraper creates a new ArticleScraper.
func NewArticleScraper() *ArticleScraper {
	return &ArticleScraper{}
}

// Scrape extracts the article body from raw HTML.
//
// Extraction strategy:
//  1. Readability against the corpus source URL (the URL helps resolve
//     relative links; a nil URL is fine)
//  2. On failure or empty extraction, strip script/style with goquery and
//     convert the body to plain text with html2text
func (a *ArticleScraper) Scrape(_ context.Context, raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	// The source URL only matters for resolving relative links, so an
	// unparseable one degrades to an empty base instead of failing the scrape
	pageURL, err := url.Parse(corpus.SourceURL)
	if err != nil {
		pageURL = &url.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(raw), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		title := strings.TrimSpace(article.Title)
		if title == "" {
			title = corpus.Title
		}
		return []ingest.RawDocument{{
			Title: title,
			Text:  strings.TrimSpace(article.TextContent),
		}}, nil
	}

	slog.Debug("readability extraction failed, falling back to html2text",
		slog.Int64("corpus_id", corpus.ID),
		slog.Any("error", err))

	return a.scrapeFallback(raw, corpus)
}

// scrapeFallback converts the page body to plain text without Readability's
// content scoring. Noisier than the primary path but never loses the text
// of simple pages.
func (a *ArticleScraper) scrapeFallback(raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse HTML: %v", ingest.ErrScrapeFailed, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = corpus.Title
	}

	// Drop non-content elements before text conversion
	doc.Find("script, style, noscript").Remove()

	bodyHTML, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(bodyHTML) == "" {
		bodyHTML = raw
	}

	text, err := html2text.FromString(bodyHTML, html2text.Options{TextOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: html2text conversion: %v", ingest.ErrScrapeFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: no readable content found", ingest.ErrScrapeFailed)
	}

	return []ingest.RawDocument{{Title: title, Text: text}}, nil
}
