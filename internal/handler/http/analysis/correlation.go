package analysis

import (
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type CorrelationHandler struct{ Svc *analysisUC.Service }

// ServeHTTP トークン相関取得
// @Summary      トークン相関取得
// @Description  文書別相対頻度系列のピアソン相関を取得します。x/yで1ペア、tokensで相関マトリクスを返します。
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        x query string false "トークン1（yと組で指定）"
// @Param        y query string false "トークン2（xと組で指定）"
// @Param        tokens query string false "相関マトリクス対象トークン（カンマ区切り）"
// @Success      200 {object} correlate.Result "相関係数"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/correlation [get]
func (h CorrelationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/correlation")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	x, y := q.Get("x"), q.Get("y")

	if x != "" && y != "" {
		result, err := h.Svc.Correlation(r.Context(), id, x, y)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, result)
		return
	}

	tokens := parseTokens(r.URL)
	if len(tokens) < 2 {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("either x and y or at least two tokens required"))
		return
	}
	grid, err := h.Svc.CorrelationGrid(r.Context(), id, tokens)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, grid)
}
