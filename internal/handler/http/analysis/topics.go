package analysis

import (
	"errors"
	"net/http"
	"strconv"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type TopicsHandler struct {
	Svc *analysisUC.Service
	Cfg analysisUC.Config
}

// ServeHTTP トピック抽出
// @Summary      トピック抽出
// @Description  有効文書に対してLDAを実行し、トピック別上位語と各文書の支配的トピックを返します
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        topics query int false "トピック数"
// @Param        top_words query int false "トピックあたりの上位語数"
// @Success      200 {object} topics.Model "トピックモデル"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - corpus not found"
// @Failure      422 {string} string "Unprocessable - corpus has no valid documents"
// @Router       /corpora/{id}/topics [get]
func (h TopicsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/topics")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := h.Cfg.Topics
	q := r.URL.Query()
	if v := q.Get("topics"); v != "" {
		cfg.Topics, err = strconv.Atoi(v)
		if err != nil || cfg.Topics < 1 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid topics: must be a positive integer"))
			return
		}
	}
	if v := q.Get("top_words"); v != "" {
		cfg.TopWords, err = strconv.Atoi(v)
		if err != nil || cfg.TopWords < 1 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("invalid top_words: must be a positive integer"))
			return
		}
	}

	model, err := h.Svc.Topics(r.Context(), id, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, model)
}
