package scraper_test

import (
	"context"
	"errors"
	"testing"

	"textmill/internal/domain/entity"
	"textmill/internal/infra/scraper"
	"textmill/internal/usecase/ingest"
)

func TestFileScraper_Scrape_NewlineDelimiter(t *testing.T) {
	raw := "First line document\nSecond line document\n\nFourth line document\n"

	corpus := &entity.Corpus{
		Kind:         "file",
		SourceConfig: &entity.SourceConfig{DocDelimiter: "newline"},
	}

	s := scraper.NewFileScraper()
	docs, err := s.Scrape(context.Background(), raw, corpus)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	// 空行はスキップされる
	if len(docs) != 3 {
		t.Fatalf("docs length = %d, want 3", len(docs))
	}

	want := []string{"First line document", "Second line document", "Fourth line document"}
	for i, w := range want {
		if docs[i].Text != w {
			t.Errorf("docs[%d].Text = %q, want %q", i, docs[i].Text, w)
		}
	}
}

func TestFileScraper_Scrape_BlanklineDelimiter(t *testing.T) {
	raw := `First paragraph spans
two lines.

Second paragraph.


Third paragraph after extra blank lines.`

	corpus := &entity.Corpus{
		Kind:         "file",
		SourceConfig: &entity.SourceConfig{DocDelimiter: "blankline"},
	}

	s := scraper.NewFileScraper()
	docs, err := s.Scrape(context.Background(), raw, corpus)
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("docs length = %d, want 3", len(docs))
	}
	if docs[0].Text != "First paragraph spans\ntwo lines." {
		t.Errorf("docs[0].Text = %q", docs[0].Text)
	}
	if docs[1].Text != "Second paragraph." {
		t.Errorf("docs[1].Text = %q", docs[1].Text)
	}
	if docs[2].Text != "Third paragraph after extra blank lines." {
		t.Errorf("docs[2].Text = %q", docs[2].Text)
	}
}

func TestFileScraper_Scrape_WholeFile(t *testing.T) {
	raw := "Line one.\nLine two.\n\nLine four."

	// DocDelimiter未指定はファイル全体を1ドキュメントとして扱う
	s := scraper.NewFileScraper()
	docs, err := s.Scrape(context.Background(), raw, &entity.Corpus{Kind: "file"})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("docs length = %d, want 1", len(docs))
	}
	if docs[0].Text != raw {
		t.Errorf("docs[0].Text = %q, want full file", docs[0].Text)
	}
}

func TestFileScraper_Scrape_UnknownDelimiter(t *testing.T) {
	corpus := &entity.Corpus{
		Kind:         "file",
		SourceConfig: &entity.SourceConfig{DocDelimiter: "tabstop"},
	}

	s := scraper.NewFileScraper()
	_, err := s.Scrape(context.Background(), "some text", corpus)
	if err == nil {
		t.Fatal("Scrape() error = nil, want error for unknown delimiter")
	}
	if !errors.Is(err, ingest.ErrScrapeFailed) {
		t.Errorf("expected ErrScrapeFailed, got: %v", err)
	}
}

func TestFileScraper_Scrape_EmptyFile(t *testing.T) {
	corpus := &entity.Corpus{
		Kind:         "file",
		SourceConfig: &entity.SourceConfig{DocDelimiter: "newline"},
	}

	s := scraper.NewFileScraper()
	_, err := s.Scrape(context.Background(), "\n  \n\n", corpus)
	if err == nil {
		t.Fatal("Scrape() error = nil, want error for empty file")
	}
	if !errors.Is(err, ingest.ErrScrapeFailed) {
		t.Errorf("expected ErrScrapeFailed, got: %v", err)
	}
}
