package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docbuilder/notify"
)

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Notify.Active(clientID(r)))
}

// createNotification lets the page raise a toast for events only the
// browser sees, such as a clipboard copy.
func (h *handler) createNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
		Duration int64  `json:"duration"` // milliseconds
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	d := time.Duration(req.Duration) * time.Millisecond
	if d <= 0 {
		d = h.svc.ToastDuration
	}
	t := h.svc.Notify.Notify(clientID(r), req.Message, notify.ParseSeverity(req.Severity), d)
	writeJSON(w, http.StatusCreated, t)
}

func (h *handler) dismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notify.Dismiss(clientID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
