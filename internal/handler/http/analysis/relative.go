package analysis

import (
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type RelativeHandler struct{ Svc *analysisUC.Service }

// ServeHTTP 相対頻度系列取得
// @Summary      相対頻度系列取得
// @Description  1トークンの文書別相対頻度（100トークンあたり）を文書順で取得します。空文書は未定義として返されます。
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        token query string true "対象トークン"
// @Success      200 {array} analysisUC.SeriesPoint "相対頻度系列"
// @Failure      400 {string} string "Bad request - token missing"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/relative [get]
func (h RelativeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/relative")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("token query param required"))
		return
	}

	series, err := h.Svc.RelativeSeries(r.Context(), id, token)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, series)
}
