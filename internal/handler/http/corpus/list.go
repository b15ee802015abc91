package corpus

import (
	"log/slog"
	"net/http"
	"time"

	"textmill/internal/common/pagination"
	"textmill/internal/handler/http/requestid"
	"textmill/internal/handler/http/respond"
	"textmill/internal/observability/logging"
	corpusUC "textmill/internal/usecase/corpus"
)

type ListHandler struct {
	Svc           *corpusUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP コーパス一覧取得
// @Summary      コーパス一覧取得（ページネーション対応）
// @Description  登録されているコーパスを取得します。ページネーションパラメータを指定して、ページ単位でコーパスを取得できます。
// @Tags         corpora
// @Produce      json
// @Param        page   query    int  false  "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit  query    int  false  "1ページあたりの件数" default(20) minimum(1) maximum(100)
// @Success      200 {object} pagination.Response[DTO] "ページネーション付きコーパス一覧"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /corpora [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("Paginated corpus list request",
		"page", params.Page,
		"limit", params.Limit,
		"request_id", reqID)

	result, err := h.Svc.ListPaginated(ctx, params)
	if err != nil {
		logger.Error("Failed to list corpora",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, c := range result.Data {
		dtos = append(dtos, toDTO(c))
	}

	response := pagination.NewResponse(dtos, result.Pagination)

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("Paginated response",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds(),
		"status", http.StatusOK,
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, response)
}
