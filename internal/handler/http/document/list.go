package document

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"textmill/internal/common/pagination"
	"textmill/internal/domain/entity"
	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/requestid"
	"textmill/internal/handler/http/respond"
	"textmill/internal/observability/logging"
	docUC "textmill/internal/usecase/document"
)

type ListByCorpusHandler struct {
	Svc           *docUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP コーパス内文書一覧取得
// @Summary      コーパス内文書一覧取得（ページネーション対応）
// @Description  指定されたコーパスの文書をseq順に取得します
// @Tags         documents
// @Produce      json
// @Param        id     path     int  true   "コーパスID"
// @Param        page   query    int  false  "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "1ページあたりの件数" default(20) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[DTO] "ページネーション付き文書一覧"
// @Failure      400 {string} string "Invalid corpus ID or query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /corpora/{id}/documents [get]
func (h ListByCorpusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	corpusID, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/documents")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.ListByCorpusPaginated(ctx, corpusID, params)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Error("Failed to list documents",
			"error", err.Error(),
			"corpus_id", corpusID,
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, d := range result.Data {
		dtos = append(dtos, toDTO(d))
	}

	response := pagination.NewResponse(dtos, result.Pagination)

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("Paginated document response",
		"corpus_id", corpusID,
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds(),
		"status", http.StatusOK,
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, response)
}
