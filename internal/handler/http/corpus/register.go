package corpus

import (
	"log/slog"
	"net/http"

	"textmill/internal/common/pagination"
	"textmill/internal/handler/http/auth"
	"textmill/internal/handler/http/middleware"
	corpusUC "textmill/internal/usecase/corpus"
)

// Register registers all corpus-related HTTP handlers with the given mux.
// It sets up routes for listing, searching, creating, updating, deleting and
// re-ingesting corpora. Mutating routes require authentication via the auth
// middleware. Search endpoints are protected by rate limiting to prevent DoS attacks.
func Register(mux *http.ServeMux, svc *corpusUC.Service, ingestor Ingestor,
	searchRateLimiter *middleware.RateLimiter, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /corpora", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	// Search endpoint with rate limiting (100 req/min per IP)
	mux.Handle("GET    /corpora/search", searchRateLimiter.Middleware(SearchHandler{svc}))
	mux.Handle("GET    /corpora/", GetHandler{svc})

	mux.Handle("POST   /corpora", auth.Authz(CreateHandler{svc}))
	mux.Handle("POST   /corpora/", auth.Authz(IngestHandler{ingestor}))
	mux.Handle("PUT    /corpora/", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /corpora/", auth.Authz(DeleteHandler{svc}))
}
