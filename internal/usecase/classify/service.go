package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"textmill/internal/domain/entity"
	"textmill/internal/infra/classifier"
	"textmill/internal/observability/metrics"
	"textmill/internal/repository"

	"golang.org/x/sync/errgroup"
)

// defaultParallelism bounds concurrent backend calls during a corpus batch.
// Classification backends are rate-limited, so this stays low.
const defaultParallelism = 5

// Classifier is the external classification backend driven by this service.
// infra/classifier provides Anthropic, OpenAI and NoOp implementations.
type Classifier interface {
	// Name identifies the backend ("anthropic", "openai", "noop"); stored on
	// every label so re-classification with a different backend never
	// overwrites another backend's labels.
	Name() string

	// Classify assigns a categorical label to the given text.
	Classify(ctx context.Context, text string) (classifier.Prediction, error)
}

// Service provides document classification use cases.
type Service struct {
	Backend      Classifier
	DocumentRepo repository.DocumentRepository
	LabelRepo    repository.LabelRepository
	Parallelism  int // concurrent backend calls in corpus batches; 0 uses the default
}

// BatchStats contains statistics about a corpus classification run.
type BatchStats struct {
	Documents  int64 // documents examined
	Classified int64 // labels stored
	Skipped    int64 // invalid or empty documents, not sent to the backend
	Failed     int64 // backend errors, logged and skipped
	Duration   time.Duration
}

// ClassifyDocument classifies a single document and persists the label.
// Returns ErrNoBackend when no backend is configured, ErrDocumentNotFound
// when the document does not exist, and ErrDocumentInvalid for documents
// excluded from analysis.
func (s *Service) ClassifyDocument(ctx context.Context, documentID int64) (*entity.Label, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	if documentID <= 0 {
		return nil, &entity.ValidationError{Field: "documentID", Message: "must be positive"}
	}

	doc, err := s.DocumentRepo.Get(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if !doc.Valid {
		return nil, ErrDocumentInvalid
	}

	return s.ClassifyStored(ctx, doc)
}

// ClassifyStored classifies an already-loaded document and persists the
// label. The ingest pipeline calls this directly for freshly created
// documents to avoid a redundant repository read.
func (s *Service) ClassifyStored(ctx context.Context, doc *entity.Document) (*entity.Label, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}

	start := time.Now()
	pred, err := s.Backend.Classify(ctx, doc.Text)
	metrics.RecordClassificationDuration(time.Since(start))
	if err != nil {
		metrics.RecordDocumentClassified(false)
		return nil, fmt.Errorf("classify document %d: %w", doc.ID, err)
	}
	metrics.RecordDocumentClassified(true)

	label := &entity.Label{
		DocumentID: doc.ID,
		Classifier: s.Backend.Name(),
		Value:      pred.Label,
		Score:      pred.Score,
	}
	if err := label.Validate(); err != nil {
		return nil, fmt.Errorf("validate label: %w", err)
	}

	if err := s.LabelRepo.Upsert(ctx, label); err != nil {
		return nil, fmt.Errorf("store label: %w", err)
	}
	return label, nil
}

// ClassifyCorpus classifies every valid document of a corpus in parallel.
//
// Error handling follows the ingest pipeline's partial-failure policy:
//   - Context cancellation aborts the batch immediately
//   - Backend errors for one document are logged, counted in Failed, and the
//     batch continues
//   - Repository write errors abort the batch
func (s *Service) ClassifyCorpus(ctx context.Context, corpusID int64) (*BatchStats, error) {
	if s.Backend == nil {
		return nil, ErrNoBackend
	}
	if corpusID <= 0 {
		return nil, &entity.ValidationError{Field: "corpusID", Message: "must be positive"}
	}

	start := time.Now()
	stats := &BatchStats{}

	docs, err := s.DocumentRepo.ListByCorpus(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	parallelism := s.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	sem := make(chan struct{}, parallelism)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, d := range docs {
		doc := d
		atomic.AddInt64(&stats.Documents, 1)

		if !doc.Valid || doc.Text == "" {
			atomic.AddInt64(&stats.Skipped, 1)
			continue
		}

		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			_, err := s.ClassifyStored(egCtx, doc)
			if err != nil {
				// Context cancellation is critical - propagate immediately
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				atomic.AddInt64(&stats.Failed, 1)
				slog.Warn("classification failed, skipping document",
					slog.Int64("corpus_id", corpusID),
					slog.Int64("document_id", doc.ID),
					slog.Int("seq", doc.Seq),
					slog.Any("error", err))
				return nil // Continue processing other documents
			}

			atomic.AddInt64(&stats.Classified, 1)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	slog.Info("corpus classification completed",
		slog.Int64("corpus_id", corpusID),
		slog.Int64("documents", stats.Documents),
		slog.Int64("classified", stats.Classified),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("failed", stats.Failed),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// Summary aggregates a corpus's labels into per-value document counts for
// the given backend, ordered by document count.
func (s *Service) Summary(ctx context.Context, corpusID int64, backendName string) ([]repository.LabelCount, error) {
	if corpusID <= 0 {
		return nil, &entity.ValidationError{Field: "corpusID", Message: "must be positive"}
	}
	if backendName == "" && s.Backend != nil {
		backendName = s.Backend.Name()
	}

	counts, err := s.LabelRepo.CorpusSummary(ctx, corpusID, backendName)
	if err != nil {
		return nil, fmt.Errorf("corpus label summary: %w", err)
	}
	return counts, nil
}

// DocumentLabels retrieves all labels of a document across backends.
func (s *Service) DocumentLabels(ctx context.Context, documentID int64) ([]*entity.Label, error) {
	if documentID <= 0 {
		return nil, &entity.ValidationError{Field: "documentID", Message: "must be positive"}
	}

	labels, err := s.LabelRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document labels: %w", err)
	}
	return labels, nil
}
