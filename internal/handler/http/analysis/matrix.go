package analysis

import (
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type MatrixHandler struct{ Svc *analysisUC.Service }

// ServeHTTP 頻度マトリクス取得
// @Summary      頻度マトリクス取得
// @Description  指定トークンの文書別カウントと相対頻度を文書順で取得します
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        tokens query string true "対象トークン（カンマ区切り）"
// @Success      200 {object} analysisUC.MatrixView "頻度マトリクス"
// @Failure      400 {string} string "Bad request - no tokens given"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/matrix [get]
func (h MatrixHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/matrix")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := h.Svc.Matrix(r.Context(), id, parseTokens(r.URL))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
