package document

import (
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	classifyUC "textmill/internal/usecase/classify"
)

type LabelsHandler struct{ Svc *classifyUC.Service }

// ServeHTTP 文書ラベル取得
// @Summary      文書ラベル取得
// @Description  指定された文書の分類ラベルをバックエンド横断で取得します
// @Tags         documents
// @Produce      json
// @Param        id path int true "文書ID"
// @Success      200 {array} labelDTO "ラベル一覧"
// @Failure      400 {string} string "Bad request - invalid document ID"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /documents/{id}/labels [get]
func (h LabelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/documents/", "/labels")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	labels, err := h.Svc.DocumentLabels(r.Context(), id)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]labelDTO, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelDTO{
			ID:         l.ID,
			DocumentID: l.DocumentID,
			Classifier: l.Classifier,
			Value:      l.Value,
			Score:      l.Score,
			CreatedAt:  l.CreatedAt,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
