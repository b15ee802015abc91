package analysis

import (
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	classifyUC "textmill/internal/usecase/classify"
)

type LabelsHandler struct{ Svc *classifyUC.Service }

type labelCountDTO struct {
	Value     string `json:"value"`
	Documents int64  `json:"documents"`
}

// ServeHTTP コーパスラベル集計取得
// @Summary      コーパスラベル集計取得
// @Description  コーパス内のラベル値別の文書数を文書数降順で取得します
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        classifier query string false "分類バックエンド（省略時は設定済みバックエンド）"
// @Success      200 {array} labelCountDTO "ラベル集計"
// @Failure      400 {string} string "Bad request"
// @Router       /corpora/{id}/labels [get]
func (h LabelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/labels")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	counts, err := h.Svc.Summary(r.Context(), id, r.URL.Query().Get("classifier"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]labelCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, labelCountDTO{Value: c.Value, Documents: c.Documents})
	}
	respond.JSON(w, http.StatusOK, out)
}
