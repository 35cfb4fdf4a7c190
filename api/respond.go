package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"docbuilder/editor"
	"docbuilder/notify"
	"docbuilder/snippet"
	"docbuilder/templates"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// toast notifies the requesting client.
func (h *handler) toast(r *http.Request, msg string, sev notify.Severity) {
	if id := clientID(r); id != "" {
		h.svc.Notify.Notify(id, msg, sev, h.svc.ToastDuration)
	}
}

// fail maps err to a response. Validation errors are also shown to the user.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		h.toast(r, verr.Message, validationSeverity(verr))
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, templates.ErrNotFound),
		errors.Is(err, snippet.ErrNotFound),
		errors.Is(err, notify.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, snippet.ErrReserved):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// validationSeverity picks the toast severity for verr: a missing selection
// only warns.
func validationSeverity(verr *editor.ValidationError) notify.Severity {
	if verr.Field == "selection" {
		return notify.Warning
	}
	return notify.Error
}
