package worker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"textmill/internal/domain/entity"
)

// SourceManifest is the YAML file listing the corpora the worker keeps
// registered. Entries are matched against existing corpora by source URL,
// so re-running the worker never creates duplicates.
//
// Example manifest:
//
//	corpora:
//	  - title: Moby-Dick
//	    url: https://www.gutenberg.org/files/2701/2701-0.txt
//	    kind: book
//	    language: en
//	    source_config:
//	      chapter_pattern: "^CHAPTER "
//	  - title: Reviews
//	    url: file:///data/reviews.csv
//	    kind: csv
//	    source_config:
//	      text_column: body
//	      skip_header: true
type SourceManifest struct {
	Corpora []ManifestEntry `yaml:"corpora"`
}

// ManifestEntry describes one corpus to register.
type ManifestEntry struct {
	Title        string                `yaml:"title"`
	URL          string                `yaml:"url"`
	Kind         string                `yaml:"kind"`
	Language     string                `yaml:"language"`
	SourceConfig *ManifestSourceConfig `yaml:"source_config"`
}

// ManifestSourceConfig mirrors entity.SourceConfig with YAML field names.
type ManifestSourceConfig struct {
	ChapterPattern string `yaml:"chapter_pattern"`
	TextColumn     string `yaml:"text_column"`
	TitleColumn    string `yaml:"title_column"`
	Delimiter      string `yaml:"delimiter"`
	SkipHeader     bool   `yaml:"skip_header"`
	MaxItems       int    `yaml:"max_items"`
	DocDelimiter   string `yaml:"doc_delimiter"`
}

// Corpus converts the manifest entry into a corpus entity ready for
// validation and persistence.
func (e ManifestEntry) Corpus() *entity.Corpus {
	c := &entity.Corpus{
		Title:     e.Title,
		SourceURL: e.URL,
		Kind:      e.Kind,
		Language:  e.Language,
	}
	if e.SourceConfig != nil {
		c.SourceConfig = &entity.SourceConfig{
			ChapterPattern: e.SourceConfig.ChapterPattern,
			TextColumn:     e.SourceConfig.TextColumn,
			TitleColumn:    e.SourceConfig.TitleColumn,
			Delimiter:      e.SourceConfig.Delimiter,
			SkipHeader:     e.SourceConfig.SkipHeader,
			MaxItems:       e.SourceConfig.MaxItems,
			DocDelimiter:   e.SourceConfig.DocDelimiter,
		}
	}
	return c
}

// LoadManifest reads and validates the source manifest at the given path.
// Every entry needs a title and a URL, URLs must be unique within the file,
// and kind-specific requirements are checked through entity validation.
func LoadManifest(path string) (*SourceManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest SourceManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	seen := make(map[string]bool, len(manifest.Corpora))
	for i, e := range manifest.Corpora {
		if e.Title == "" {
			return nil, fmt.Errorf("manifest entry %d: title is required", i)
		}
		if e.URL == "" {
			return nil, fmt.Errorf("manifest entry %d (%s): url is required", i, e.Title)
		}
		if seen[e.URL] {
			return nil, fmt.Errorf("manifest entry %d (%s): duplicate url %s", i, e.Title, e.URL)
		}
		seen[e.URL] = true

		if err := e.Corpus().Validate(); err != nil {
			return nil, fmt.Errorf("manifest entry %d (%s): %w", i, e.Title, err)
		}
	}

	return &manifest, nil
}
