package api

import (
	"net/http"

	"docbuilder/notify"
	"docbuilder/ui"
)

type themeResponse struct {
	Theme   ui.Theme `json:"theme"`
	Message string   `json:"message,omitempty"`
}

func (h *handler) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: h.svc.Themes.Current(r.Context(), clientID(r))})
}

func (h *handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	next, err := h.svc.Themes.Toggle(r.Context(), clientID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := next.Announcement()
	h.toast(r, msg, notify.Info)
	writeJSON(w, http.StatusOK, themeResponse{Theme: next, Message: msg})
}
