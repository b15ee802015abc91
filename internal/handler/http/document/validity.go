package document

import (
	"encoding/json"
	"errors"
	"net/http"

	"textmill/internal/handler/http/pathutil"
	"textmill/internal/handler/http/respond"
	docUC "textmill/internal/usecase/document"
)

type ValidityHandler struct{ Svc *docUC.Service }

// ServeHTTP 文書有効フラグ更新
// @Summary      文書有効フラグ更新
// @Description  文書を分析対象に含めるか除外するかを設定します。除外には理由が必要です。
// @Tags         documents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "文書ID"
// @Param        validity body object true "有効フラグと除外理由"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      404 {string} string "Not found - document not found"
// @Router       /documents/{id}/validity [put]
func (h ValidityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractNestedID(r.URL.Path, "/documents/", "/validity")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Valid  *bool  `json:"valid"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Valid == nil {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("valid field required"))
		return
	}

	err = h.Svc.SetValidity(r.Context(), id, *req.Valid, req.Reason)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, docUC.ErrDocumentNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
