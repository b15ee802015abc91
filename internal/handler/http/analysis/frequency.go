package analysis

import (
	"errors"
	"net/http"
	"strconv"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type FrequencyHandler struct {
	Svc *analysisUC.Service
	Cfg analysisUC.Config
}

// ServeHTTP 頻度表取得
// @Summary      頻度表取得
// @Description  コーパス全体のトークン頻度表を頻度降順で取得します（相対頻度は100トークンあたり）
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        limit query int false "上位N件（0は全件）"
// @Success      200 {array} analysisUC.Entry "頻度表"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/frequency [get]
func (h FrequencyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/frequency")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	topN := h.Cfg.TopN
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		topN, err = strconv.Atoi(limitStr)
		if err != nil || topN < 0 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid limit: must be a non-negative integer"))
			return
		}
	}

	entries, err := h.Svc.Frequency(r.Context(), id, topN)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}
