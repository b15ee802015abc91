package analysis

import (
	"net/http"

	"textmill/internal/handler/http/middleware"
	analysisUC "textmill/internal/usecase/analysis"
	classifyUC "textmill/internal/usecase/classify"
)

// Register registers all analysis HTTP handlers with the given mux. Every
// route is read-only and keyed by corpus ID. The heavier endpoints (topics,
// entities and reports) share a rate limiter because they re-run model
// fitting per request.
func Register(mux *http.ServeMux, svc *analysisUC.Service, classifySvc *classifyUC.Service,
	cfg analysisUC.Config, heavyRateLimiter *middleware.RateLimiter) {
	mux.Handle("GET    /corpora/{id}/frequency", FrequencyHandler{svc, cfg})
	mux.Handle("GET    /corpora/{id}/matrix", MatrixHandler{svc})
	mux.Handle("GET    /corpora/{id}/relative", RelativeHandler{svc})
	mux.Handle("GET    /corpora/{id}/dispersion", DispersionHandler{svc})
	mux.Handle("GET    /corpora/{id}/correlation", CorrelationHandler{svc})
	mux.Handle("GET    /corpora/{id}/labels", LabelsHandler{classifySvc})

	mux.Handle("GET    /corpora/{id}/topics", heavyRateLimiter.Middleware(TopicsHandler{svc, cfg}))
	mux.Handle("GET    /corpora/{id}/entities", heavyRateLimiter.Middleware(EntitiesHandler{svc, cfg}))
	mux.Handle("GET    /corpora/{id}/report/bar", heavyRateLimiter.Middleware(ReportHandler{svc, cfg, "bar"}))
	mux.Handle("GET    /corpora/{id}/report/wordcloud", heavyRateLimiter.Middleware(ReportHandler{svc, cfg, "wordcloud"}))
	mux.Handle("GET    /corpora/{id}/report/xray", heavyRateLimiter.Middleware(ReportHandler{svc, cfg, "xray"}))
	mux.Handle("GET    /corpora/{id}/report/scatter", heavyRateLimiter.Middleware(ReportHandler{svc, cfg, "scatter"}))
}
