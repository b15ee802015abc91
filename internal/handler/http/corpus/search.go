package corpus

import (
	"errors"
	"net/http"
	"net/url"

	"textmill/internal/handler/http/respond"
	corpusUC "textmill/internal/usecase/corpus"
)

type SearchHandler struct{ Svc *corpusUC.Service }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keyword := parseKeyword(r.URL)
	if keyword == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("keyword query param required"))
		return
	}
	list, err := h.Svc.Search(r.Context(), keyword)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, c := range list {
		out = append(out, toDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

func parseKeyword(u *url.URL) string {
	return u.Query().Get("keyword")
}
