package http

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handlePersonas(w http.ResponseWriter, r *http.Request) {
	all := h.deps.Personas.LoadAll()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{
		"personas": names,
		"count":    len(names),
	})
}

func (h *Handler) handlePersona(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, ok := h.deps.Personas.Load(name)
	if !ok {
		writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
