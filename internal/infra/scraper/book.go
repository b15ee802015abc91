// Package scraper provides implementations for splitting loaded corpus
// sources into ordered documents. Scrapers are pure text processors: the
// loader has already fetched the raw bytes by the time a scraper runs.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/usecase/ingest"
)

// defaultChapterPattern matches chapter headings of the form
// "CHAPTER I", "Chapter 12." or "chapter xiv", anchored to the start of a
// line. Roman numerals and arabic digits are both accepted.
const defaultChapterPattern = `(?mi)^\s*chapter\s+[\divxlc]+.*$`

var (
	// Gutenberg plain-text files wrap the body in START/END marker lines.
	// Both the old ("THIS PROJECT") and new ("THE PROJECT") phrasings occur.
	gutenbergStartRe = regexp.MustCompile(`(?m)^\s*\*\*\*\s*START OF TH(?:E|IS) PROJECT GUTENBERG EBOOK.*$`)
	gutenbergEndRe   = regexp.MustCompile(`(?m)^\s*\*\*\*\s*END OF TH(?:E|IS) PROJECT GUTENBERG EBOOK.*$`)

	// Illustration annotations, possibly spanning lines:
	// [Illustration: A view of the harbour]
	illustrationRe = regexp.MustCompile(`\[Illustration[^\]]*\]`)
)

// BookScraper splits Project Gutenberg style plain-text books into chapter
// documents. Licensing boilerplate outside the START/END markers is
// stripped, illustration annotations removed, and the remaining body split
// on chapter headings in source order.
type BookScraper struct{}

// NewBookScraper creates a new BookScraper.
func NewBookScraper() *BookScraper {
	return &BookScraper{}
}

// Scrape splits raw book text into one document per chapter.
//
// Processing steps:
//  1. Strip Project Gutenberg START/END framing when present
//  2. Remove [Illustration: ...] annotations
//  3. Split on chapter headings (SourceConfig.ChapterPattern overrides the
//     default regex)
//
// Front matter before the first chapter heading (title page, table of
// contents) is dropped. A book with no chapter headings at all becomes a
// single document holding the whole body.
func (b *BookScraper) Scrape(_ context.Context, raw string, corpus *entity.Corpus) ([]ingest.RawDocument, error) {
	body := stripGutenbergFraming(raw)
	body = illustrationRe.ReplaceAllString(body, "")

	pattern := defaultChapterPattern
	if corpus.SourceConfig != nil && corpus.SourceConfig.ChapterPattern != "" {
		pattern = corpus.SourceConfig.ChapterPattern
	}

	chapterRe, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid chapter pattern %q: %v", ingest.ErrScrapeFailed, pattern, err)
	}

	docs := splitChapters(body, chapterRe)
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: book body is empty", ingest.ErrScrapeFailed)
	}

	slog.Debug("book split into chapters",
		slog.Int64("corpus_id", corpus.ID),
		slog.Int("chapters", len(docs)))

	return docs, nil
}

// stripGutenbergFraming removes everything outside the
// *** START / *** END marker lines. Text without markers passes through
// unchanged, so non-Gutenberg books work too.
func stripGutenbergFraming(raw string) string {
	body := raw

	if loc := gutenbergStartRe.FindStringIndex(body); loc != nil {
		body = body[loc[1]:]
	}

	if loc := gutenbergEndRe.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}

	return body
}

// splitChapters splits the body on chapter headings, using the heading
// line as the document title. Text before the first heading is front
// matter and is dropped; a body with no headings yields one untitled
// document.
func splitChapters(body string, chapterRe *regexp.Regexp) []ingest.RawDocument {
	headings := chapterRe.FindAllStringIndex(body, -1)

	// No chapter structure: the whole body is one document
	if len(headings) == 0 {
		text := strings.TrimSpace(body)
		if text == "" {
			return nil
		}
		return []ingest.RawDocument{{Text: text}}
	}

	docs := make([]ingest.RawDocument, 0, len(headings))
	for i, loc := range headings {
		title := strings.TrimSpace(body[loc[0]:loc[1]])

		// Chapter text runs from the end of this heading to the start of
		// the next one (or end of body for the last chapter)
		textStart := loc[1]
		textEnd := len(body)
		if i+1 < len(headings) {
			textEnd = headings[i+1][0]
		}

		docs = append(docs, ingest.RawDocument{
			Title: title,
			Text:  strings.TrimSpace(body[textStart:textEnd]),
		})
	}

	return docs
}
