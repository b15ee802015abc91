package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest_Valid(t *testing.T) {
	path := writeManifest(t, `
corpora:
  - title: Moby-Dick
    url: https://www.gutenberg.org/files/2701/2701-0.txt
    kind: book
    language: en
    source_config:
      chapter_pattern: "^CHAPTER "
  - title: Reviews
    url: file:///data/reviews.csv
    kind: csv
    source_config:
      text_column: body
      title_column: product
      skip_header: true
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(manifest.Corpora) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(manifest.Corpora))
	}

	book := manifest.Corpora[0].Corpus()
	if book.Title != "Moby-Dick" || book.Kind != "book" || book.Language != "en" {
		t.Errorf("unexpected book corpus: %+v", book)
	}
	if book.SourceConfig == nil || book.SourceConfig.ChapterPattern != "^CHAPTER " {
		t.Errorf("chapter pattern not mapped: %+v", book.SourceConfig)
	}

	csv := manifest.Corpora[1].Corpus()
	if csv.SourceConfig == nil || csv.SourceConfig.TextColumn != "body" || !csv.SourceConfig.SkipHeader {
		t.Errorf("csv source config not mapped: %+v", csv.SourceConfig)
	}
}

func TestLoadManifest_KindDefaultsToBook(t *testing.T) {
	path := writeManifest(t, `
corpora:
  - title: Plain
    url: https://example.com/plain.txt
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if got := manifest.Corpora[0].Corpus(); got.Kind != "" {
		// Corpus() does not validate; the default is applied by Validate.
		t.Errorf("expected empty kind before validation, got %q", got.Kind)
	}
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing title",
			content: "corpora:\n  - url: https://example.com/a.txt\n",
			wantErr: "title is required",
		},
		{
			name:    "missing url",
			content: "corpora:\n  - title: A\n",
			wantErr: "url is required",
		},
		{
			name: "duplicate url",
			content: `corpora:
  - title: A
    url: https://example.com/a.txt
  - title: B
    url: https://example.com/a.txt
`,
			wantErr: "duplicate url",
		},
		{
			name: "invalid kind",
			content: `corpora:
  - title: A
    url: https://example.com/a.txt
    kind: video
`,
			wantErr: "invalid kind",
		},
		{
			name: "csv without text column",
			content: `corpora:
  - title: A
    url: https://example.com/a.csv
    kind: csv
`,
			wantErr: "text_column",
		},
		{
			name:    "malformed yaml",
			content: "corpora: [",
			wantErr: "parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadManifest_FileNotFound(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read manifest") {
		t.Errorf("error = %v, want read manifest wrapping", err)
	}
}
