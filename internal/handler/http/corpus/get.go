package corpus

import (
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	corpusUC "textmill/internal/usecase/corpus"
)

type GetHandler struct{ Svc *corpusUC.Service }

// ServeHTTP コーパス詳細取得
// @Summary      コーパス詳細取得
// @Description  指定されたIDのコーパスを取得します
// @Tags         corpora
// @Produce      json
// @Param        id path int true "コーパスID"
// @Success      200 {object} DTO "コーパス詳細"
// @Failure      400 {string} string "Bad request - invalid corpus ID"
// @Failure      404 {string} string "Not found - corpus not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /corpora/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/corpora/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, corpusUC.ErrCorpusNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(c))
}
