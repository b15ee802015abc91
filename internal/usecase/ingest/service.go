package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"textmill/internal/domain/entity"
	"textmill/internal/observability/metrics"
	"textmill/internal/repository"
	"textmill/internal/textproc"
	"textmill/internal/usecase/notify"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/sync/errgroup"
)

const (
	classifierParallelism = 5  // AI classification parallelism (rate-limited)
	summaryTopTokens      = 10 // top tokens included in ingest notifications
)

// DocumentClassifier labels an already-stored document and persists the
// result. This decouples the ingest service from the classify use case;
// usecase/classify.Service satisfies it.
type DocumentClassifier interface {
	ClassifyStored(ctx context.Context, doc *entity.Document) (*entity.Label, error)
}

// EmbeddingHook is an interface for asynchronous document embedding.
// This is used to decouple the ingest service from AI implementation.
type EmbeddingHook interface {
	EmbedDocumentAsync(ctx context.Context, doc *entity.Document)
}

// PipelineConfig holds configuration for ingest pipeline behavior.
// This is passed to the Service to control parallelism and summary settings.
type PipelineConfig struct {
	ClassifyParallelism int // Maximum number of concurrent classification calls
	SummaryTopTokens    int // Top tokens included in the ingest summary notification
}

// Service provides corpus ingestion use cases. It orchestrates the pipeline
// that loads raw source text, splits it into documents, cleans and tokenizes
// them, persists documents and token counts, classifies documents through an
// external backend, and announces the completed run.
type Service struct {
	CorpusRepo    repository.CorpusRepository
	DocumentRepo  repository.DocumentRepository
	TermCountRepo repository.TermCountRepository
	Loader        SourceLoader
	Scrapers      map[string]Scraper // Scraper registry keyed by corpus kind
	Cleaner       *textproc.Cleaner
	Tokenizer     *textproc.Tokenizer
	Classifier    DocumentClassifier // Optional: nil disables classification
	NotifyService notify.Service     // Optional: nil disables notifications
	EmbeddingHook EmbeddingHook      // Optional: nil disables embedding generation
	config        PipelineConfig
}

// NewService creates a new ingest Service with the provided dependencies.
// This constructor ensures proper initialization of the Service with all required components.
//
// Parameters:
//   - corpusRepo: Repository for managing corpora
//   - documentRepo: Repository for managing documents
//   - termCountRepo: Repository for managing per-document token counts
//   - loader: Service for loading raw source text from URLs or local paths
//   - scrapers: Map of scrapers keyed by corpus kind ("book", "article", "feed", "csv", "file")
//   - cleaner: Text cleaner applied to every scraped document
//   - tokenizer: Tokenizer producing the counted word tokens
//   - classifier: Service for document classification (can be nil to disable)
//   - notifyService: Service for sending ingest notifications (can be nil to disable)
//   - embeddingHook: Hook for async embedding generation (can be nil to disable)
//   - config: Configuration for pipeline behavior (parallelism, summary size)
//
// Returns:
//   - Service: Configured ingest service ready to use
//
// Example:
//
//	config := PipelineConfig{ClassifyParallelism: 5, SummaryTopTokens: 10}
//	scrapers := scraperFactory.CreateScrapers()
//	service := NewService(corpusRepo, documentRepo, termCountRepo, loader, scrapers, cleaner, tokenizer, classifySvc, notifySvc, hook, config)
func NewService(
	corpusRepo repository.CorpusRepository,
	documentRepo repository.DocumentRepository,
	termCountRepo repository.TermCountRepository,
	loader SourceLoader,
	scrapers map[string]Scraper,
	cleaner *textproc.Cleaner,
	tokenizer *textproc.Tokenizer,
	classifier DocumentClassifier,
	notifyService notify.Service,
	embeddingHook EmbeddingHook,
	config PipelineConfig,
) Service {
	return Service{
		CorpusRepo:    corpusRepo,
		DocumentRepo:  documentRepo,
		TermCountRepo: termCountRepo,
		Loader:        loader,
		Scrapers:      scrapers,
		Cleaner:       cleaner,
		Tokenizer:     tokenizer,
		Classifier:    classifier,
		NotifyService: notifyService,
		EmbeddingHook: embeddingHook,
		config:        config,
	}
}

// IngestStats contains statistics about an ingest operation.
type IngestStats struct {
	Corpora        int
	DocumentsFound int64
	Inserted       int64
	Skipped        int64
	ClassifyErrors int64
	Tokens         int64
	Duration       time.Duration
}

// IngestAll runs the ingest pipeline for every corpus. It performs the
// following steps for each corpus:
// 1. Loads the raw source text
// 2. Splits it into documents with the kind-appropriate scraper
// 3. Cleans, tokenizes and persists documents and token counts
// 4. Classifies documents in parallel through the external backend
// Returns ingest statistics including counts of found, inserted, and skipped documents.
func (s *Service) IngestAll(ctx context.Context) (*IngestStats, error) {
	logger := slog.Default()
	startAll := time.Now()
	stats := &IngestStats{}

	corpora, err := s.CorpusRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}
	stats.Corpora = len(corpora)

	for _, corpus := range corpora {
		if err := s.ingestSingleCorpus(ctx, corpus, stats); err != nil {
			return stats, err
		}
	}

	stats.Duration = time.Since(startAll)
	logger.Info("all corpora ingest completed",
		slog.Int("corpora", stats.Corpora),
		slog.Int64("documents_found", stats.DocumentsFound),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("classify_errors", stats.ClassifyErrors),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// IngestCorpus runs the ingest pipeline for a single corpus. Unlike
// IngestAll, source failures are returned to the caller instead of being
// skipped, so an HTTP client triggering a re-ingest sees why it failed.
// Returns entity.ErrNotFound when the corpus does not exist.
func (s *Service) IngestCorpus(ctx context.Context, corpusID int64) (*IngestStats, error) {
	if corpusID <= 0 {
		return nil, &entity.ValidationError{Field: "corpusID", Message: "must be positive"}
	}

	corpus, err := s.CorpusRepo.Get(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("get corpus: %w", err)
	}
	if corpus == nil {
		return nil, entity.ErrNotFound
	}

	start := time.Now()
	stats := &IngestStats{Corpora: 1}
	if err := s.processCorpus(ctx, corpus, stats); err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)

	return stats, nil
}

// ingestSingleCorpus runs the pipeline for one corpus during a scheduled run.
// Source failures (load, scrape) are logged and skipped so a single broken
// source never stops the remaining corpora; repository errors and context
// cancellation abort the run.
func (s *Service) ingestSingleCorpus(ctx context.Context, corpus *entity.Corpus, stats *IngestStats) error {
	err := s.processCorpus(ctx, corpus, stats)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, ErrSourceLoadFailed) || errors.Is(err, ErrScrapeFailed) {
		slog.Warn("corpus ingest failed, continuing with remaining corpora",
			slog.Int64("corpus_id", corpus.ID),
			slog.String("source_url", corpus.SourceURL),
			slog.Any("error", err))
		return nil
	}
	return err
}

// selectScraper chooses the appropriate scraper based on the corpus kind.
// An empty kind is treated as "book" for backward compatibility; unknown
// kinds log a warning and fall back to the book scraper.
func (s *Service) selectScraper(corpus *entity.Corpus) Scraper {
	kind := corpus.Kind
	if kind == "" {
		kind = "book"
	}

	if s.Scrapers != nil {
		if scraper, exists := s.Scrapers[kind]; exists {
			return scraper
		}
	}

	// Unknown corpus kind - log warning and fallback to book scraper
	slog.Warn("unknown corpus kind, falling back to book scraper",
		slog.String("kind", corpus.Kind),
		slog.Int64("corpus_id", corpus.ID),
		slog.String("title", corpus.Title))
	if s.Scrapers != nil {
		return s.Scrapers["book"]
	}
	return nil
}

// processCorpus runs the full pipeline for one corpus: load, scrape, clean,
// tokenize, persist, classify, and notify. It updates the provided stats
// atomically. Returns ErrSourceLoadFailed/ErrScrapeFailed-wrapped errors for
// source problems and plain wrapped errors for repository failures.
func (s *Service) processCorpus(ctx context.Context, corpus *entity.Corpus, stats *IngestStats) error {
	logger := slog.Default()
	corpusStart := time.Now()

	raw, err := s.Loader.Load(ctx, corpus.SourceURL)
	if err != nil {
		metrics.RecordIngestError(corpus.ID, "load_failed")
		return fmt.Errorf("%w: %v", ErrSourceLoadFailed, err)
	}

	scraper := s.selectScraper(corpus)
	if scraper == nil {
		metrics.RecordIngestError(corpus.ID, "scrape_failed")
		return fmt.Errorf("%w: no scraper registered for kind %q", ErrScrapeFailed, corpus.Kind)
	}

	rawDocs, err := scraper.Scrape(ctx, raw, corpus)
	if err != nil {
		metrics.RecordIngestError(corpus.ID, "scrape_failed")
		return fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}

	if len(rawDocs) == 0 {
		logger.Info("source produced no documents",
			slog.Int64("corpus_id", corpus.ID),
			slog.String("source_url", corpus.SourceURL))
		return nil
	}

	// Store the detected source language before documents reference it
	if lang := detectLanguage(raw); lang != "" && lang != corpus.Language {
		corpus.Language = lang
		if err := s.CorpusRepo.Update(ctx, corpus); err != nil {
			return fmt.Errorf("update corpus language: %w", err)
		}
	}

	// Track stats before processing for metrics
	beforeInserted := atomic.LoadInt64(&stats.Inserted)
	beforeSkipped := atomic.LoadInt64(&stats.Skipped)

	summary, err := s.processDocuments(ctx, corpus, rawDocs, stats)
	if err != nil {
		metrics.RecordIngestError(corpus.ID, "process_documents_failed")
		return fmt.Errorf("process documents: %w", err)
	}

	safeCtx := context.WithoutCancel(ctx)
	if err := s.CorpusRepo.TouchIngestedAt(safeCtx, corpus.ID, time.Now(), summary.Documents); err != nil {
		return fmt.Errorf("update corpus ingested timestamp: %w", err)
	}

	corpusDuration := time.Since(corpusStart)
	docsFound := int64(len(rawDocs))
	docsInserted := atomic.LoadInt64(&stats.Inserted) - beforeInserted
	docsSkipped := atomic.LoadInt64(&stats.Skipped) - beforeSkipped

	// Record metrics for this corpus ingest
	metrics.RecordIngest(corpus.ID, corpusDuration, docsFound, docsInserted, docsSkipped)

	logger.Info("corpus ingest completed",
		slog.Int64("corpus_id", corpus.ID),
		slog.Int64("documents_found", docsFound),
		slog.Int64("inserted", docsInserted),
		slog.Int64("skipped", docsSkipped),
		slog.Int("tokens", summary.Tokens),
		slog.Duration("duration", corpusDuration),
	)

	// Notify about the completed run (non-blocking)
	// Note: NotifyService handles goroutines internally, no need for go func() here
	summary.Duration = corpusDuration
	summary.CompletedAt = time.Now()
	if s.NotifyService != nil {
		if err := s.NotifyService.NotifyIngestCompleted(context.Background(), summary); err != nil {
			// NotifyIngestCompleted returns nil (fire-and-forget), but keeping error check for future
			slog.Warn("Failed to dispatch notification",
				slog.Int64("corpus_id", corpus.ID),
				slog.String("title", corpus.Title),
				slog.Any("error", err))
		}
	}

	return nil
}

// processDocuments cleans, tokenizes and persists the scraped documents,
// then classifies them in parallel while dispatching embedding generation.
// The previous run's documents are replaced; foreign key cascades clear
// their token counts, labels and embeddings.
//
// Error Handling:
//   - Context cancellation (context.Canceled, context.DeadlineExceeded): Propagates immediately (aborts ingest)
//   - Database errors: Propagates (aborts ingest for this corpus)
//   - Cleaning failures: Document marked invalid, counted in stats.Skipped, processing continues
//   - Classification errors: Logged and counted in stats.ClassifyErrors, processing continues with other documents
func (s *Service) processDocuments(
	ctx context.Context,
	corpus *entity.Corpus,
	rawDocs []RawDocument,
	stats *IngestStats,
) (*entity.IngestSummary, error) {
	now := time.Now()

	// Clean the whole batch first; the result is index-aligned with the
	// input so seq assignment stays straightforward.
	texts := make([]string, len(rawDocs))
	for i, rd := range rawDocs {
		texts[i] = rd.Text
	}
	batch := s.Cleaner.CleanAll(texts)

	skipReasons := make(map[int]string, len(batch.Skipped))
	for _, sk := range batch.Skipped {
		skipReasons[sk.Index] = sk.Reason
	}

	docs := make([]*entity.Document, len(rawDocs))
	tokensPerDoc := make([][]string, len(rawDocs))
	skipped := 0
	totalTokens := 0

	for i, rd := range rawDocs {
		atomic.AddInt64(&stats.DocumentsFound, 1)

		doc := &entity.Document{
			CorpusID:  corpus.ID,
			Seq:       i,
			Title:     rd.Title,
			Text:      batch.Cleaned[i],
			RawText:   rd.Text,
			Valid:     true,
			Language:  detectLanguage(rd.Text),
			CreatedAt: now,
		}

		if reason, excluded := skipReasons[i]; excluded {
			doc.MarkInvalid(reason)
		} else if doc.Text == "" {
			doc.MarkInvalid("empty after cleaning")
		} else if tokens := s.Tokenizer.Tokenize(doc.Text); len(tokens) == 0 {
			doc.MarkInvalid("no tokens after cleaning")
		} else {
			doc.TokenCount = len(tokens)
			tokensPerDoc[i] = tokens
			totalTokens += len(tokens)
		}

		if !doc.Valid {
			skipped++
			atomic.AddInt64(&stats.Skipped, 1)
		}
		docs[i] = doc
	}

	// Replace the previous run. Invalid documents are stored too, so the
	// skip reasons stay inspectable.
	if _, err := s.DocumentRepo.DeleteByCorpus(ctx, corpus.ID); err != nil {
		return nil, fmt.Errorf("delete previous documents: %w", err)
	}
	if err := s.DocumentRepo.CreateBatch(ctx, docs); err != nil {
		return nil, fmt.Errorf("create documents in repository: %w", err)
	}

	// Persist token counts with corpus-wide first positions so rankings can
	// break count ties by first appearance in a straight read-through.
	inserted := 0
	offset := 0
	for i, doc := range docs {
		if !doc.Valid {
			continue
		}
		counts := buildTermCounts(tokensPerDoc[i], offset)
		if err := s.TermCountRepo.ReplaceForDocument(ctx, doc.ID, counts); err != nil {
			return nil, fmt.Errorf("store term counts for document %d: %w", doc.ID, err)
		}
		offset += doc.TokenCount
		inserted++
		atomic.AddInt64(&stats.Inserted, 1)
		atomic.AddInt64(&stats.Tokens, int64(doc.TokenCount))
	}

	// Classify valid documents in parallel and dispatch embedding generation.
	labelTallies := make(map[string]int)
	var tallyMu sync.Mutex
	var classifyFailed int64

	parallelism := s.config.ClassifyParallelism
	if parallelism <= 0 {
		parallelism = classifierParallelism
	}
	classifySem := make(chan struct{}, parallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, d := range docs {
		doc := d
		if !doc.Valid {
			continue
		}

		eg.Go(func() error {
			// Generate embedding asynchronously (non-blocking)
			// Note: EmbeddingHook spawns goroutine internally, no need for go func() here
			if s.EmbeddingHook != nil {
				s.EmbeddingHook.EmbedDocumentAsync(egCtx, doc)
			}

			if s.Classifier == nil {
				return nil
			}

			// AI classification (low parallelism, rate-limited)
			classifySem <- struct{}{}
			defer func() { <-classifySem }()

			label, err := s.Classifier.ClassifyStored(egCtx, doc)
			if err != nil {
				// Context cancellation is critical - propagate immediately
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				atomic.AddInt64(&classifyFailed, 1)
				atomic.AddInt64(&stats.ClassifyErrors, 1)

				// Log warning and skip this document instead of stopping the entire ingest
				logger := slog.Default()
				logger.Warn("classification failed, skipping document",
					slog.Int64("corpus_id", corpus.ID),
					slog.Int64("document_id", doc.ID),
					slog.Int("seq", doc.Seq),
					slog.Any("error", err))
				return nil // Continue processing other documents
			}

			tallyMu.Lock()
			labelTallies[label.Value]++
			tallyMu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary := &entity.IngestSummary{
		CorpusID:    corpus.ID,
		CorpusTitle: corpus.Title,
		Documents:   inserted,
		Skipped:     skipped,
		Failed:      int(atomic.LoadInt64(&classifyFailed)),
		Tokens:      totalTokens,
		TopTokens:   s.topTokenRanks(ctx, corpus.ID),
		Labels:      sortLabelTallies(labelTallies),
	}
	return summary, nil
}

// topTokenRanks fetches the corpus's most frequent tokens for the summary.
// The documents are already persisted at this point, so a failure here only
// degrades the notification; it never fails the run.
func (s *Service) topTokenRanks(ctx context.Context, corpusID int64) []entity.TokenRank {
	limit := s.config.SummaryTopTokens
	if limit <= 0 {
		limit = summaryTopTokens
	}

	top, err := s.TermCountRepo.TopN(ctx, corpusID, limit)
	if err != nil {
		slog.Warn("failed to load top tokens for ingest summary",
			slog.Int64("corpus_id", corpusID),
			slog.Any("error", err))
		return nil
	}

	ranks := make([]entity.TokenRank, 0, len(top))
	for _, tc := range top {
		ranks = append(ranks, entity.TokenRank{Token: tc.Token, Count: tc.Count})
	}
	return ranks
}

// buildTermCounts aggregates a document's tokens into per-token counts.
// FirstPos is the corpus-wide position of the token's first occurrence
// (document offset plus in-document index). Entries are emitted in
// first-occurrence order, which keeps the output deterministic.
func buildTermCounts(tokens []string, corpusOffset int) []repository.TermCount {
	index := make(map[string]int, len(tokens))
	out := make([]repository.TermCount, 0, len(tokens)/2+1)
	for i, tok := range tokens {
		if at, seen := index[tok]; seen {
			out[at].Count++
			continue
		}
		index[tok] = len(out)
		out = append(out, repository.TermCount{Token: tok, Count: 1, FirstPos: corpusOffset + i})
	}
	return out
}

// sortLabelTallies converts a label tally map into the summary's ordered
// slice: document count descending, then value ascending for determinism.
func sortLabelTallies(tallies map[string]int) []entity.LabelTally {
	if len(tallies) == 0 {
		return nil
	}

	out := make([]entity.LabelTally, 0, len(tallies))
	for value, count := range tallies {
		out = append(out, entity.LabelTally{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// detectLanguage returns the ISO 639-1 code of the text's language, or the
// empty string when detection is not reliable enough to store.
func detectLanguage(text string) string {
	if text == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
