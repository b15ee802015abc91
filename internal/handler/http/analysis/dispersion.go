package analysis

import (
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type DispersionHandler struct{ Svc *analysisUC.Service }

// ServeHTTP 分散プロファイル取得
// @Summary      分散プロファイル取得
// @Description  指定トークンのコーパス全体でのグローバル出現位置と文書境界を取得します
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        tokens query string true "対象トークン（カンマ区切り）"
// @Success      200 {object} dispersion.Profile "分散プロファイル"
// @Failure      400 {string} string "Bad request - no tokens given"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/dispersion [get]
func (h DispersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/dispersion")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := h.Svc.Dispersion(r.Context(), id, parseTokens(r.URL))
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, profile)
}
