package analysis

import (
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

// ReportHandler serves one chart kind; Register wires an instance per kind.
type ReportHandler struct {
	Svc  *analysisUC.Service
	Cfg  analysisUC.Config
	Kind string
}

// ServeHTTP チャート仕様取得
// @Summary      チャート仕様取得
// @Description  描画可能なチャート仕様を取得します（bar/wordcloud/xray/scatter）
// @Tags         analysis
// @Produce      json
// @Param        id path int true "コーパスID"
// @Param        kind path string true "チャート種別" Enums(bar, wordcloud, xray, scatter)
// @Param        tokens query string false "対象トークン（xrayで必須、カンマ区切り）"
// @Param        x query string false "X軸トークン（scatterで必須）"
// @Param        y query string false "Y軸トークン（scatterで必須）"
// @Success      200 {object} object "チャート仕様"
// @Failure      400 {string} string "Bad request"
// @Failure      404 {string} string "Not found - corpus not found"
// @Router       /corpora/{id}/report/{kind} [get]
func (h ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/corpora/", "/report/"+h.Kind)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	var chart any
	switch h.Kind {
	case "bar":
		chart, err = h.Svc.BarReport(ctx, id, h.Cfg)
	case "wordcloud":
		chart, err = h.Svc.WordCloudReport(ctx, id, h.Cfg)
	case "xray":
		chart, err = h.Svc.XRayReport(ctx, id, parseTokens(r.URL))
	case "scatter":
		q := r.URL.Query()
		x, y := q.Get("x"), q.Get("y")
		if x == "" || y == "" {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("x and y query params required"))
			return
		}
		chart, err = h.Svc.ScatterReport(ctx, id, x, y, h.Cfg)
	default:
		respond.SafeError(w, http.StatusNotFound,
			errors.New("unknown report kind"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, chart)
}
