package document

import (
	"errors"
	"net/http"
	"strconv"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	aiUC "textmill/internal/usecase/ai"
)

type SimilarHandler struct{ Svc *aiUC.Service }

type similarDTO struct {
	DocumentID int64   `json:"document_id"`
	Similarity float64 `json:"similarity"`
}

// ServeHTTP 類似文書検索
// @Summary      類似文書検索
// @Description  埋め込みベクトルのコサイン類似度で近傍文書を取得します
// @Tags         documents
// @Produce      json
// @Param        id path int true "文書ID"
// @Param        limit query int false "最大件数" default(10) maximum(50)
// @Success      200 {array} similarDTO "類似文書一覧"
// @Failure      400 {string} string "Bad request - invalid document ID"
// @Failure      404 {string} string "Not found - document has no embedding"
// @Failure      503 {string} string "Service unavailable - AI features disabled"
// @Router       /documents/{id}/similar [get]
func (h SimilarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/documents/", "/similar")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid limit: must be a positive integer"))
			return
		}
	}

	neighbors, err := h.Svc.SimilarDocuments(r.Context(), id, limit)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, aiUC.ErrAIDisabled) {
			code = http.StatusServiceUnavailable
		} else if errors.Is(err, aiUC.ErrNoEmbedding) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	out := make([]similarDTO, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, similarDTO{DocumentID: n.DocumentID, Similarity: n.Similarity})
	}
	respond.JSON(w, http.StatusOK, out)
}
