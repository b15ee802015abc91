package analysis

import (
	"context"
	"fmt"
	"strings"

	"textmill/internal/analysis/correlate"
	"textmill/internal/analysis/dispersion"
	"textmill/internal/analysis/entities"
	"textmill/internal/analysis/freq"
	"textmill/internal/analysis/topics"
	"textmill/internal/domain/entity"
	"textmill/internal/report"
	"textmill/internal/repository"
	"textmill/internal/textproc"
)

// Config bounds one analysis call. A fresh Config is passed per call so
// concurrent requests with different settings never share state.
type Config struct {
	TopN     int             // entries in frequency queries; 0 returns all
	Topics   topics.Config   // LDA settings
	Entities entities.Config // entity extraction settings
	Report   report.Config   // chart layout bounds
}

// DefaultConfig returns settings suitable for book-sized corpora.
func DefaultConfig() Config {
	return Config{
		TopN:     20,
		Topics:   topics.DefaultConfig(),
		Entities: entities.Config{TopN: 25},
		Report:   report.DefaultConfig(),
	}
}

// Service provides analysis use cases. Frequency queries read the persisted
// term counts; matrix-shaped operations re-tokenize the stored cleaned text
// so positional information (which persistence flattens into counts) is
// available. Both paths go through the same tokenizer, so their counts agree.
type Service struct {
	CorpusRepo    repository.CorpusRepository
	DocumentRepo  repository.DocumentRepository
	TermCountRepo repository.TermCountRepository
	Cleaner       *textproc.Cleaner
	Tokenizer     *textproc.Tokenizer
}

// Entry is one row of a frequency query result.
type Entry = freq.Entry

// SeriesPoint is one document's relative frequency of a token, in corpus
// order. Rel.Defined is false for zero-token documents: the value is
// undefined there, not zero.
type SeriesPoint struct {
	Seq   int          `json:"seq"`
	Title string       `json:"title"`
	Rel   freq.RelFreq `json:"rel"`
}

// MatrixRow is one document's counts for a selected token set.
type MatrixRow struct {
	Seq      int            `json:"seq"`
	Title    string         `json:"title"`
	Total    int            `json:"total"`
	Counts   []int          `json:"counts"`   // aligned with the request's token order
	Relative []freq.RelFreq `json:"relative"` // per 100 tokens; undefined for empty documents
}

// MatrixView is the dense document-frequency view for a token set.
type MatrixView struct {
	Tokens []string    `json:"tokens"`
	Rows   []MatrixRow `json:"rows"`
}

// Frequency returns the corpus's most frequent tokens from the persisted
// term counts: descending count, ties broken by first occurrence in the
// corpus. topN <= 0 returns the full table.
func (s *Service) Frequency(ctx context.Context, corpusID int64, topN int) ([]Entry, error) {
	if _, err := s.getCorpus(ctx, corpusID); err != nil {
		return nil, err
	}

	var (
		rows []repository.CorpusTermCount
		err  error
	)
	if topN > 0 {
		rows, err = s.TermCountRepo.TopN(ctx, corpusID, topN)
	} else {
		rows, err = s.TermCountRepo.CorpusTable(ctx, corpusID)
	}
	if err != nil {
		return nil, fmt.Errorf("Frequency: %w", err)
	}

	total, err := s.corpusTotal(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("Frequency: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e := Entry{Token: row.Token, Count: row.Count}
		if total > 0 {
			e.Rel = float64(row.Count) / float64(total) * 100
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Matrix returns per-document counts and relative frequencies for the given
// tokens, one row per document in corpus order. Tokens are normalized
// through the service tokenizer so queries match stored counts. Empty
// documents appear with undefined relative entries, never silent zeros.
func (s *Service) Matrix(ctx context.Context, corpusID int64, tokens []string) (*MatrixView, error) {
	targets := s.normalizeTargets(tokens)
	if len(targets) == 0 {
		return nil, ErrTokenRequired
	}

	m, docs, err := s.corpusMatrix(ctx, corpusID)
	if err != nil {
		return nil, err
	}

	view := &MatrixView{
		Tokens: targets,
		Rows:   make([]MatrixRow, len(docs)),
	}
	for i, doc := range docs {
		row := MatrixRow{
			Seq:      doc.Seq,
			Title:    docLabel(doc),
			Total:    m.DocumentTotal(i),
			Counts:   make([]int, len(targets)),
			Relative: make([]freq.RelFreq, len(targets)),
		}
		for j, tok := range targets {
			row.Counts[j] = m.Count(i, tok)
			series := m.RelativeSeries(tok)
			row.Relative[j] = series[i]
		}
		view.Rows[i] = row
	}
	return view, nil
}

// RelativeSeries returns one token's relative frequency in every document of
// the corpus, in corpus order.
func (s *Service) RelativeSeries(ctx context.Context, corpusID int64, token string) ([]SeriesPoint, error) {
	targets := s.normalizeTargets([]string{token})
	if len(targets) == 0 {
		return nil, ErrTokenRequired
	}

	m, docs, err := s.corpusMatrix(ctx, corpusID)
	if err != nil {
		return nil, err
	}

	series := m.RelativeSeries(targets[0])
	points := make([]SeriesPoint, len(docs))
	for i, doc := range docs {
		points[i] = SeriesPoint{Seq: doc.Seq, Title: docLabel(doc), Rel: series[i]}
	}
	return points, nil
}

// Dispersion computes token occurrence positions across the corpus token
// stream for an x-ray view. Targets that never occur still produce a series.
func (s *Service) Dispersion(ctx context.Context, corpusID int64, tokens []string) (dispersion.Profile, error) {
	targets := s.normalizeTargets(tokens)
	if len(targets) == 0 {
		return dispersion.Profile{}, ErrTokenRequired
	}

	docs, err := s.listDocuments(ctx, corpusID)
	if err != nil {
		return dispersion.Profile{}, err
	}
	return dispersion.Build(s.tokenizeDocs(docs), targets), nil
}

// Correlation computes the Pearson correlation of two tokens' per-document
// relative frequencies. Empty documents are excluded pairwise.
func (s *Service) Correlation(ctx context.Context, corpusID int64, x, y string) (correlate.Result, error) {
	xs := s.normalizeTargets([]string{x})
	ys := s.normalizeTargets([]string{y})
	if len(xs) == 0 || len(ys) == 0 {
		return correlate.Result{}, ErrTokenRequired
	}

	m, _, err := s.corpusMatrix(ctx, corpusID)
	if err != nil {
		return correlate.Result{}, err
	}
	return correlate.Tokens(m, xs[0], ys[0])
}

// CorrelationGrid computes the pairwise correlation grid for a token set.
// Cells that cannot be computed come back with Defined false.
func (s *Service) CorrelationGrid(ctx context.Context, corpusID int64, tokens []string) ([][]correlate.Result, error) {
	targets := s.normalizeTargets(tokens)
	if len(targets) < 2 {
		return nil, ErrTokenRequired
	}

	m, _, err := s.corpusMatrix(ctx, corpusID)
	if err != nil {
		return nil, err
	}
	return correlate.Grid(m, targets), nil
}

// Topics fits an LDA model over the corpus's cleaned document texts.
func (s *Service) Topics(ctx context.Context, corpusID int64, cfg topics.Config) (*topics.Model, error) {
	docs, err := s.listDocuments(ctx, corpusID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Valid && doc.Text != "" {
			texts = append(texts, doc.Text)
		}
	}
	if len(texts) == 0 {
		return nil, entity.ErrCorpusEmpty
	}

	model, err := topics.Extract(texts, cfg)
	if err != nil {
		return nil, fmt.Errorf("Topics: %w", err)
	}
	return model, nil
}

// Entities extracts named entities from the corpus's raw text. Raw text is
// used deliberately: the tagger depends on capitalization that cleaning
// destroys.
func (s *Service) Entities(ctx context.Context, corpusID int64, cfg entities.Config) ([]entities.Entity, error) {
	docs, err := s.listDocuments(ctx, corpusID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, doc := range docs {
		if !doc.Valid {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(doc.RawText)
	}

	result, err := entities.Extract(b.String(), cfg)
	if err != nil {
		return nil, fmt.Errorf("Entities: %w", err)
	}
	return result, nil
}

// BarReport builds a render-ready bar chart of the corpus's top tokens.
func (s *Service) BarReport(ctx context.Context, corpusID int64, cfg Config) (report.BarChart, error) {
	corpus, err := s.getCorpus(ctx, corpusID)
	if err != nil {
		return report.BarChart{}, err
	}
	entries, err := s.Frequency(ctx, corpusID, cfg.Report.MaxBars)
	if err != nil {
		return report.BarChart{}, err
	}
	return report.BuildBar(corpus.Title, entries, cfg.Report), nil
}

// WordCloudReport builds a render-ready word cloud of the corpus's top tokens.
func (s *Service) WordCloudReport(ctx context.Context, corpusID int64, cfg Config) (report.WordCloudChart, error) {
	corpus, err := s.getCorpus(ctx, corpusID)
	if err != nil {
		return report.WordCloudChart{}, err
	}
	entries, err := s.Frequency(ctx, corpusID, cfg.Report.MaxCloudItems)
	if err != nil {
		return report.WordCloudChart{}, err
	}
	return report.BuildWordCloud(corpus.Title, entries, cfg.Report), nil
}

// XRayReport builds a render-ready dispersion chart for the given tokens.
func (s *Service) XRayReport(ctx context.Context, corpusID int64, tokens []string) (report.XRayChart, error) {
	corpus, err := s.getCorpus(ctx, corpusID)
	if err != nil {
		return report.XRayChart{}, err
	}
	profile, err := s.Dispersion(ctx, corpusID, tokens)
	if err != nil {
		return report.XRayChart{}, err
	}
	return report.BuildXRay(corpus.Title, profile), nil
}

// ScatterReport builds a labeled scatter plot of two tokens' per-document
// relative frequencies, one point per document where both values are
// defined. Labels are displaced deterministically so none overlap.
func (s *Service) ScatterReport(ctx context.Context, corpusID int64, x, y string, cfg Config) (report.ScatterChart, error) {
	corpus, err := s.getCorpus(ctx, corpusID)
	if err != nil {
		return report.ScatterChart{}, err
	}

	xs := s.normalizeTargets([]string{x})
	ys := s.normalizeTargets([]string{y})
	if len(xs) == 0 || len(ys) == 0 {
		return report.ScatterChart{}, ErrTokenRequired
	}

	m, docs, err := s.corpusMatrix(ctx, corpusID)
	if err != nil {
		return report.ScatterChart{}, err
	}

	xSeries := m.RelativeSeries(xs[0])
	ySeries := m.RelativeSeries(ys[0])
	points := make([]report.LabeledPoint, 0, len(docs))
	for i, doc := range docs {
		if !xSeries[i].Defined || !ySeries[i].Defined {
			continue
		}
		points = append(points, report.LabeledPoint{
			Label: docLabel(doc),
			X:     xSeries[i].Value,
			Y:     ySeries[i].Value,
		})
	}
	return report.BuildScatter(corpus.Title, xs[0], ys[0], points, cfg.Report), nil
}

// getCorpus retrieves the corpus or reports ErrCorpusNotFound. The
// repository convention returns (nil, nil) for a missing row.
func (s *Service) getCorpus(ctx context.Context, corpusID int64) (*entity.Corpus, error) {
	corpus, err := s.CorpusRepo.Get(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("get corpus %d: %w", corpusID, err)
	}
	if corpus == nil {
		return nil, ErrCorpusNotFound
	}
	return corpus, nil
}

// corpusTotal sums the persisted token totals of every document in the
// corpus.
func (s *Service) corpusTotal(ctx context.Context, corpusID int64) (int, error) {
	totals, err := s.TermCountRepo.DocumentTotals(ctx, corpusID)
	if err != nil {
		return 0, fmt.Errorf("document totals of corpus %d: %w", corpusID, err)
	}
	sum := 0
	for _, t := range totals {
		sum += t.Total
	}
	return sum, nil
}

// listDocuments loads the corpus's documents in seq order, verifying the
// corpus exists first so a missing corpus and an empty one are
// distinguishable.
func (s *Service) listDocuments(ctx context.Context, corpusID int64) ([]*entity.Document, error) {
	if _, err := s.getCorpus(ctx, corpusID); err != nil {
		return nil, err
	}
	docs, err := s.DocumentRepo.ListByCorpus(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("list documents of corpus %d: %w", corpusID, err)
	}
	if len(docs) == 0 {
		return nil, entity.ErrCorpusEmpty
	}
	return docs, nil
}

// corpusMatrix loads and tokenizes the corpus into a dense matrix. Invalid
// documents contribute an empty row so corpus ordering and undefined
// relative frequencies survive.
func (s *Service) corpusMatrix(ctx context.Context, corpusID int64) (*freq.Matrix, []*entity.Document, error) {
	docs, err := s.listDocuments(ctx, corpusID)
	if err != nil {
		return nil, nil, err
	}
	return freq.BuildMatrix(s.tokenizeDocs(docs)), docs, nil
}

// tokenizeDocs tokenizes each document's cleaned text, keeping a row for
// invalid documents so positions and ordering stay aligned with seq.
func (s *Service) tokenizeDocs(docs []*entity.Document) [][]string {
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		if !doc.Valid {
			tokenized[i] = nil
			continue
		}
		tokenized[i] = s.Tokenizer.Tokenize(doc.Text)
	}
	return tokenized
}

// normalizeTargets runs query tokens through the cleaner and tokenizer so
// lookups use the same normalization (case fold, stemming) as the stored
// counts. Tokens that clean away to nothing are dropped.
func (s *Service) normalizeTargets(tokens []string) []string {
	targets := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		cleaned, err := s.Cleaner.Clean(tok)
		if err != nil {
			continue
		}
		normalized := s.Tokenizer.Tokenize(cleaned)
		if len(normalized) == 0 {
			continue
		}
		targets = append(targets, normalized[0])
	}
	return targets
}

// docLabel returns a document's display label: its title, or its 1-based
// position when untitled.
func docLabel(doc *entity.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return fmt.Sprintf("#%d", doc.Seq+1)
}
