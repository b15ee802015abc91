package analysis

import (
	"net/http"
	"strings"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

type EntitiesHandler struct {
	Svc *analysisUC.Service
	Cfg analysisUC.Config
}

// ServeHTTP 固有表現抽出
// @Summary      固有表現抽出
// @Description  コーパスの原文から固有表現を抽出し、出現回数降順で返します
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        labels query string false "対象ラベル（カンマ区切り、例: PERSON,GPE）"
// @Success      200 {array} entities.Entity "固有表現一覧"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - corpus not found"
// @Failure      422 {string} string "Unprocessable - corpus has no valid documents"
// @Router       /corpora/{id}/entities [get]
func (h EntitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/entities")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := h.Cfg.Entities
	if raw := r.URL.Query().Get("labels"); raw != "" {
		cfg.Labels = nil
		for _, l := range strings.Split(raw, ",") {
			if l = strings.TrimSpace(l); l != "" {
				cfg.Labels = append(cfg.Labels, strings.ToUpper(l))
			}
		}
	}

	found, err := h.Svc.Entities(r.Context(), id, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, found)
}
