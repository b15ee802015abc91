// Package analysis provides HTTP handlers for the corpus analysis endpoints:
// frequency tables, per-chapter matrices, relative frequency series,
// dispersion profiles, correlations, topics, named entities, label summaries
// and render-ready chart specifications.
package analysis

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"textmill/internal/domain/entity"
	"textmill/internal/handler/http/respond"
	analysisUC "textmill/internal/usecase/analysis"
)

// writeError maps analysis use case errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var ve *entity.ValidationError
	switch {
	case errors.Is(err, analysisUC.ErrCorpusNotFound):
		code = http.StatusNotFound
	case errors.Is(err, analysisUC.ErrTokenRequired):
		code = http.StatusBadRequest
	case errors.Is(err, entity.ErrCorpusEmpty):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &ve):
		code = http.StatusBadRequest
	}
	respond.SafeError(w, code, err)
}

// parseTokens reads target tokens from the query string. Both a
// comma-separated "tokens" parameter and repeated "token" parameters are
// accepted; blanks are dropped.
func parseTokens(u *url.URL) []string {
	var out []string
	for _, raw := range u.Query()["token"] {
		if t := strings.TrimSpace(raw); t != "" {
			out = append(out, t)
		}
	}
	for _, raw := range strings.Split(u.Query().Get("tokens"), ",") {
		if t := strings.TrimSpace(raw); t != "" {
			out = append(out, t)
		}
	}
	return out
}
