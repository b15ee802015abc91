package corpus

import (
	"encoding/json"
	"errors"
	"net/http"

	"textmill/internal/domain/entity"
	"textmill/internal/handler/http/respond"
	corpusUC "textmill/internal/usecase/corpus"
)

type CreateHandler struct{ Svc *corpusUC.Service }

// ServeHTTP コーパス登録
// @Summary      コーパス登録
// @Description  新しいコーパスを登録します（取り込みは行いません）
// @Tags         corpora
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        corpus body object true "登録するコーパス情報"
// @Success      201 "Created"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      409 {string} string "Conflict - source URL already registered"
// @Router       /corpora [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	if req.Title == "" || req.SourceURL == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("title and sourceURL required"))
		return
	}
	err := h.Svc.Create(r.Context(), corpusUC.CreateInput{
		Title: req.Title, SourceURL: req.SourceURL,
		Kind: req.Kind, SourceConfig: req.SourceConfig,
		Language: req.Language,
	})
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, corpusUC.ErrDuplicateCorpus) {
			code = http.StatusConflict
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
