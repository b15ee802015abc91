package corpus

import (
	"encoding/json"
	"errors"
	"net/http"

	"textmill/internal/domain/entity"
	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	corpusUC "textmill/internal/usecase/corpus"
)

type UpdateHandler struct{ Svc *corpusUC.Service }

// ServeHTTP コーパス更新
// @Summary      コーパス更新
// @Description  既存のコーパスを更新します。空のフィールドは変更されません。
// @Tags         corpora
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        corpus body object true "更新するコーパス情報"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/corpora/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title        string               `json:"title"`
		SourceURL    string               `json:"sourceURL"`
		Kind         string               `json:"kind"`
		SourceConfig *entity.SourceConfig `json:"sourceConfig"`
		Language     string               `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Svc.Update(r.Context(), corpusUC.UpdateInput{
		ID: id, Title: req.Title, SourceURL: req.SourceURL,
		Kind: req.Kind, SourceConfig: req.SourceConfig,
		Language: req.Language,
	})
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, corpusUC.ErrCorpusNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
