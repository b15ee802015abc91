package document

import (
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	docUC "textmill/internal/usecase/document"
)

type GetHandler struct{ Svc *docUC.Service }

// ServeHTTP 文書詳細取得
// @Summary      文書詳細取得
// @Description  指定されたIDの文書を取得します（コーパスタイトルと本文を含む）
// @Tags         documents
// @Produce      json
// @Param        id path int true "文書ID"
// @Success      200 {object} DTO "文書詳細"
// @Failure      400 {string} string "Bad request - invalid document ID"
// @Failure      404 {string} string "Not found - document not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /documents/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/documents/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	doc, corpusTitle, err := h.Svc.GetWithCorpus(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, docUC.ErrInvalidDocumentID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, docUC.ErrDocumentNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	out := toDTO(doc)
	out.CorpusTitle = corpusTitle
	out.Text = doc.Text

	respond.JSON(w, http.StatusOK, out)
}
