package corpus

import (
	"context"
	"fmt"
	"strings"

	"textmill/internal/common/pagination"
	"textmill/internal/domain/entity"
	"textmill/internal/repository"
)

// CreateInput represents the input parameters for registering a new corpus.
type CreateInput struct {
	Title        string
	SourceURL    string
	Kind         string
	SourceConfig *entity.SourceConfig
	Language     string
}

// UpdateInput represents the input parameters for updating an existing corpus.
// Empty string fields and a nil SourceConfig will not be updated.
type UpdateInput struct {
	ID           int64
	Title        string
	SourceURL    string
	Kind         string
	SourceConfig *entity.SourceConfig
	Language     string
}

// Service provides corpus management use cases.
// It handles business logic for corpus operations and delegates persistence
// to the repository.
type Service struct {
	Repo repository.CorpusRepository
}

// PaginatedResult represents the result of a paginated corpus query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []*entity.Corpus
	Pagination pagination.Metadata
}

// List retrieves all corpora from the repository.
// Returns an error if the repository operation fails.
func (s *Service) List(ctx context.Context) ([]*entity.Corpus, error) {
	corpora, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}
	return corpora, nil
}

// ListPaginated retrieves corpora with pagination support.
// It calculates the appropriate offset, retrieves the data and total count,
// and returns a PaginatedResult with both data and metadata.
func (s *Service) ListPaginated(ctx context.Context, params pagination.Params) (*PaginatedResult, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count corpora: %w", err)
	}

	corpora, err := s.Repo.ListPaginated(ctx, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list corpora paginated: %w", err)
	}

	totalPages := pagination.CalculateTotalPages(total, params.Limit)

	return &PaginatedResult{
		Data: corpora,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

// Get retrieves a single corpus by its ID.
// Returns a ValidationError if the ID is not positive.
// Returns ErrCorpusNotFound if the corpus does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Corpus, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	corpus, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get corpus: %w", err)
	}
	if corpus == nil {
		return nil, ErrCorpusNotFound
	}
	return corpus, nil
}

// Search finds corpora matching the given keyword.
// The search is performed against corpus titles.
// Returns an error if the repository operation fails.
func (s *Service) Search(ctx context.Context, keyword string) ([]*entity.Corpus, error) {
	corpora, err := s.Repo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search corpora: %w", err)
	}
	return corpora, nil
}

// Create registers a new corpus with the provided input.
// It validates the input including the source URL format for remote sources,
// and rejects sources that are already registered.
// Returns a ValidationError if any input field is invalid.
// Returns ErrDuplicateCorpus if a corpus with the same source already exists.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	if in.Title == "" {
		return &entity.ValidationError{Field: "title", Message: "is required"}
	}
	if in.SourceURL == "" {
		return &entity.ValidationError{Field: "sourceURL", Message: "is required"}
	}

	// リモートソースのみURL形式検証（file://とローカルパスはローダーが検証する）
	if isRemoteSource(in.SourceURL) {
		if err := entity.ValidateURL(in.SourceURL); err != nil {
			return fmt.Errorf("validate source URL: %w", err)
		}
	}

	c := &entity.Corpus{
		Title:        in.Title,
		SourceURL:    in.SourceURL,
		Kind:         in.Kind,
		SourceConfig: in.SourceConfig,
		Language:     in.Language,
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate corpus: %w", err)
	}

	exists, err := s.Repo.ExistsByURL(ctx, in.SourceURL)
	if err != nil {
		return fmt.Errorf("check corpus existence: %w", err)
	}
	if exists {
		return ErrDuplicateCorpus
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create corpus: %w", err)
	}
	return nil
}

// Update modifies an existing corpus with the provided input.
// Empty string fields and a nil SourceConfig will not be updated.
// Returns ErrCorpusNotFound if the corpus does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	if in.ID <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	c, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("get corpus: %w", err)
	}
	if c == nil {
		return ErrCorpusNotFound
	}

	if in.Title != "" {
		c.Title = in.Title
	}
	if in.SourceURL != "" {
		if isRemoteSource(in.SourceURL) {
			if err := entity.ValidateURL(in.SourceURL); err != nil {
				return fmt.Errorf("validate source URL: %w", err)
			}
		}
		c.SourceURL = in.SourceURL
	}
	if in.Kind != "" {
		c.Kind = in.Kind
	}
	if in.SourceConfig != nil {
		c.SourceConfig = in.SourceConfig
	}
	if in.Language != "" {
		c.Language = in.Language
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate corpus: %w", err)
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update corpus: %w", err)
	}
	return nil
}

// Delete removes a corpus by its ID.
// Returns a ValidationError if the ID is not positive.
// Returns an error if the repository operation fails.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}
	return nil
}

// isRemoteSource reports whether the source needs http/https URL validation.
// file:// URLs and plain filesystem paths are loaded locally and validated
// by the loader at ingest time instead.
func isRemoteSource(source string) bool {
	if strings.HasPrefix(source, "file://") {
		return false
	}
	return strings.Contains(source, "://")
}
