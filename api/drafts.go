package api

import (
	"net/http"
	"time"

	"docbuilder/draft"
	"docbuilder/notify"
)

const autosavedToastDuration = 2 * time.Second

func (h *handler) getDraft(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.svc.Drafts.Load(r.Context(), clientID(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		draft.Record
		Prompt string `json:"prompt"`
	}{rec, draft.RestorePrompt})
}

// putDraft stores the posted form as the client's draft. Forms with blank
// content are not worth keeping and are ignored.
func (h *handler) putDraft(w http.ResponseWriter, r *http.Request) {
	var rec draft.Record
	if !decode(w, r, &rec) {
		return
	}
	if !rec.Worth() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rec.Timestamp = h.svc.Drafts.Now().UnixMilli()
	if err := h.svc.Drafts.Save(r.Context(), clientID(r), rec); err != nil {
		// Best effort.
		h.log.Warn("draft save failed", "client", clientID(r), "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.svc.Notify.Notify(clientID(r), "Brouillon sauvegardé automatiquement", notify.Info, autosavedToastDuration)
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) deleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Drafts.Discard(r.Context(), clientID(r)); err != nil {
		h.log.Warn("draft discard failed", "client", clientID(r), "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
