package document

import (
	"log/slog"
	"net/http"

	"textmill/internal/common/pagination"
	"textmill/internal/handler/http/auth"
	"textmill/internal/handler/http/middleware"
	aiUC "textmill/internal/usecase/ai"
	classifyUC "textmill/internal/usecase/classify"
	docUC "textmill/internal/usecase/document"
)

// Register registers all document-related HTTP handlers with the given mux.
// Documents are read-only over HTTP except for the validity flag and
// deletion, which require authentication. Search endpoints are protected by
// rate limiting to prevent DoS attacks.
func Register(mux *http.ServeMux, svc *docUC.Service, classifySvc *classifyUC.Service,
	aiSvc *aiUC.Service, searchRateLimiter *middleware.RateLimiter,
	paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /corpora/{id}/documents", ListByCorpusHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	// Search endpoint with rate limiting (100 req/min per IP)
	mux.Handle("GET    /documents/search", searchRateLimiter.Middleware(SearchHandler{svc}))
	mux.Handle("GET    /documents/{id}", GetHandler{svc})
	mux.Handle("GET    /documents/{id}/labels", LabelsHandler{classifySvc})
	mux.Handle("GET    /documents/{id}/similar", SimilarHandler{aiSvc})

	mux.Handle("PUT    /documents/{id}/validity", auth.Authz(ValidityHandler{svc}))
	mux.Handle("DELETE /documents/{id}", auth.Authz(DeleteHandler{svc}))
}
