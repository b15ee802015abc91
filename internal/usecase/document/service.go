package document

import (
	"context"
	"fmt"

	"textmill/internal/common/pagination"
	"textmill/internal/domain/entity"
	"textmill/internal/repository"
)

// Service provides document query and maintenance use cases.
// It handles business logic for document operations and delegates persistence
// to the repository.
type Service struct {
	Repo repository.DocumentRepository
}

// PaginatedResult represents the result of a paginated document query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []*entity.Document
	Pagination pagination.Metadata
}

// ListByCorpus retrieves all documents of a corpus in seq order.
// Returns an error if the repository operation fails.
func (s *Service) ListByCorpus(ctx context.Context, corpusID int64) ([]*entity.Document, error) {
	if corpusID <= 0 {
		return nil, &entity.ValidationError{Field: "corpusID", Message: "must be positive"}
	}

	docs, err := s.Repo.ListByCorpus(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// ListByCorpusPaginated retrieves a seq-ordered page of a corpus's documents
// together with pagination metadata.
func (s *Service) ListByCorpusPaginated(ctx context.Context, corpusID int64, params pagination.Params) (*PaginatedResult, error) {
	if corpusID <= 0 {
		return nil, &entity.ValidationError{Field: "corpusID", Message: "must be positive"}
	}

	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Repo.CountByCorpus(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	docs, err := s.Repo.ListByCorpusPaginated(ctx, corpusID, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list documents paginated: %w", err)
	}

	totalPages := pagination.CalculateTotalPages(total, params.Limit)

	return &PaginatedResult{
		Data: docs,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

// Get retrieves a single document by its ID.
// Returns ErrInvalidDocumentID if the ID is not positive.
// Returns ErrDocumentNotFound if the document does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Document, error) {
	if id <= 0 {
		return nil, ErrInvalidDocumentID
	}

	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// GetWithCorpus retrieves a document by ID together with its corpus title.
// Returns ErrInvalidDocumentID if the ID is not positive.
// Returns ErrDocumentNotFound if the document does not exist.
func (s *Service) GetWithCorpus(ctx context.Context, id int64) (*entity.Document, string, error) {
	if id <= 0 {
		return nil, "", ErrInvalidDocumentID
	}

	doc, corpusTitle, err := s.Repo.GetWithCorpus(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("get document with corpus: %w", err)
	}
	if doc == nil {
		return nil, "", ErrDocumentNotFound
	}
	return doc, corpusTitle, nil
}

// SearchWithFilters searches document titles and text with multi-keyword AND
// logic and optional corpus/validity filters.
// Returns an error if the repository operation fails.
func (s *Service) SearchWithFilters(ctx context.Context, keywords []string, filters repository.DocumentSearchFilters) ([]*entity.Document, error) {
	docs, err := s.Repo.SearchWithFilters(ctx, keywords, filters)
	if err != nil {
		return nil, fmt.Errorf("search documents with filters: %w", err)
	}
	return docs, nil
}

// SetValidity flags a document as included in or excluded from downstream
// analysis. Excluding requires a reason; re-including clears it.
// Returns ErrInvalidDocumentID if the ID is not positive.
// Returns ErrDocumentNotFound if the document does not exist.
func (s *Service) SetValidity(ctx context.Context, id int64, valid bool, reason string) error {
	if id <= 0 {
		return ErrInvalidDocumentID
	}
	if !valid && reason == "" {
		return &entity.ValidationError{Field: "reason", Message: "is required when invalidating"}
	}

	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if valid {
		doc.Valid = true
		doc.InvalidReason = ""
	} else {
		doc.MarkInvalid(reason)
	}

	if err := s.Repo.Update(ctx, doc); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// Delete removes a document by its ID.
// Returns ErrInvalidDocumentID if the ID is not positive.
// Returns an error if the repository operation fails.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidDocumentID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
