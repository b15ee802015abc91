package corpus

import (
	"context"
	"errors"
	"net/http"

	"textmill/internal/domain/entity"
	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	ingestUC "textmill/internal/usecase/ingest"
)

// Ingestor runs the ingest pipeline for a single corpus. Implemented by
// the ingest use case service.
type Ingestor interface {
	IngestCorpus(ctx context.Context, corpusID int64) (*ingestUC.IngestStats, error)
}

type IngestHandler struct{ Ingestor Ingestor }

type ingestResultDTO struct {
	DocumentsFound int64  `json:"documents_found"`
	Inserted       int64  `json:"inserted"`
	Skipped        int64  `json:"skipped"`
	ClassifyErrors int64  `json:"classify_errors"`
	Tokens         int64  `json:"tokens"`
	DurationMs     int64  `json:"duration_ms"`
	Status         string `json:"status"`
}

// ServeHTTP コーパス取り込み実行
// @Summary      コーパス取り込み実行
// @Description  指定されたコーパスのソースを再取得し、文書の分割・整形・トークン集計を実行します
// @Tags         corpora
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "コーパスID"
// @Success      200 {object} ingestResultDTO "取り込み結果"
// @Failure      400 {string} string "Bad request - invalid corpus ID"
// @Failure      404 {string} string "Not found - corpus not found"
// @Failure      502 {string} string "Bad gateway - source fetch failed"
// @Router       /corpora/{id}/ingest [post]
func (h IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/ingest")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	stats, err := h.Ingestor.IngestCorpus(r.Context(), id)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, entity.ErrNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, ingestResultDTO{
		DocumentsFound: stats.DocumentsFound,
		Inserted:       stats.Inserted,
		Skipped:        stats.Skipped,
		ClassifyErrors: stats.ClassifyErrors,
		Tokens:         stats.Tokens,
		DurationMs:     stats.Duration.Milliseconds(),
		Status:         "completed",
	})
}
