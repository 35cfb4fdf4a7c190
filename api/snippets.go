package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docbuilder/editor"
	"docbuilder/snippet"
)

func (h *handler) getSnippets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snippets.Get())
}

func (h *handler) putSnippets(w http.ResponseWriter, r *http.Request) {
	var lib snippet.Library
	if !decode(w, r, &lib) {
		return
	}
	// Save drops recentlyUsed ids that are not in the new list.
	if err := h.svc.Snippets.Save(lib); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snippets.Get())
}

func (h *handler) useSnippet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// MarkUsed silently ignores non-existent IDs.
	if err := h.svc.Snippets.MarkUsed(id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"recentlyUsed": h.svc.Snippets.Get().RecentlyUsed})
}

// insertSnippet places the snippet at the posted selection and records the
// use.
func (h *handler) insertSnippet(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := h.svc.Snippets.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Snippets.MarkUsed(s.ID); err != nil {
		h.log.Warn("snippet mark used failed", "id", s.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, editor.Insert(req.Content, req.Selection, s.Content))
}
