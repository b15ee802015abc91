package document

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"textmill/internal/handler/http/respond"
	"textmill/internal/pkg/search"
	"textmill/internal/repository"
	docUC "textmill/internal/usecase/document"
)

type SearchHandler struct{ Svc *docUC.Service }

// ServeHTTP 文書検索
// @Summary      文書検索
// @Description  マルチキーワードで文書のタイトルと本文を検索します（AND論理）
// @Tags         documents
// @Produce      json
// @Param        keyword query string true "検索キーワード（スペース区切り）"
// @Param        corpus_id query int false "コーパスIDでフィルタ"
// @Param        valid query bool false "有効フラグでフィルタ"
// @Success      200 {array} DTO "検索結果"
// @Failure      400 {string} string "Bad request"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /documents/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("keyword query param required"))
		return
	}

	keywords, err := search.ParseKeywords(kw, search.DefaultMaxKeywordCount, search.DefaultMaxKeywordLength)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid keyword: %w", err))
		return
	}

	var filters repository.DocumentSearchFilters

	if corpusIDStr := r.URL.Query().Get("corpus_id"); corpusIDStr != "" {
		corpusID, err := strconv.ParseInt(corpusIDStr, 10, 64)
		if err != nil || corpusID <= 0 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid corpus_id: must be a positive integer"))
			return
		}
		filters.CorpusID = &corpusID
	}

	if validStr := r.URL.Query().Get("valid"); validStr != "" {
		valid, err := strconv.ParseBool(validStr)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid valid: must be true or false"))
			return
		}
		filters.Valid = &valid
	}

	docs, err := h.Svc.SearchWithFilters(r.Context(), keywords, filters)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDTO(d))
	}
	respond.JSON(w, http.StatusOK, out)
}
