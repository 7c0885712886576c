package api

import (
	"net/http"
	"strings"
)

// DiseasesHandler serves the disease catalog.
type DiseasesHandler struct {
	deps Dependencies
}

// NewDiseasesHandler creates a new catalog handler.
func NewDiseasesHandler(deps Dependencies) *DiseasesHandler {
	return &DiseasesHandler{deps: deps}
}

// HandleList handles GET /diseases requests.
func (h *DiseasesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Diseases())
}

// HandleGet handles GET /diseases/{key} requests.
func (h *DiseasesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_disease"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/diseases/")
	if key == "" || strings.Contains(key, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	d, err := h.deps.Disease(key)
	if err != nil {
		writeFailure(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
