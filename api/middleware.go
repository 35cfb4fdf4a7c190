package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"docbuilder/notify"
	"docbuilder/ui"
)

const (
	// ClientCookie identifies the browser. Its value is the storage
	// namespace of the client.
	ClientCookie = "docbuilder_client"

	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

type ctxKey int

const clientKey ctxKey = 0

// clientID returns the namespace set by clientIdentity.
func clientID(r *http.Request) string {
	id, _ := r.Context().Value(clientKey).(string)
	return id
}

// clientIdentity assigns each browser a persistent id.
func clientIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(ClientCookie); err == nil && validUUID(c.Value) {
			id = c.Value
		} else {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   365 * 24 * 3600,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey, id)))
	})
}

// csrfProtect issues the csrftoken cookie and requires unsafe requests to
// echo it in the X-CSRFToken header.
func csrfProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(CSRFCookie); err == nil {
			token = c.Value
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if token == "" {
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookie,
					Value:    strings.ReplaceAll(uuid.New().String(), "-", ""),
					Path:     "/",
					MaxAge:   365 * 24 * 3600,
					SameSite: http.SameSiteLaxMode,
				})
			}
		default:
			sent := r.Header.Get(CSRFHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				writeError(w, http.StatusForbidden, "CSRF token missing or incorrect")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer logs a panicking handler, toasts the client and answers 500.
func (h *handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.log.Error("handler panic", "method", r.Method, "path", r.URL.Path,
				"panic", rec, "stack", string(debug.Stack()))
			h.toast(r, ui.MsgUnexpected, notify.Error)
			writeError(w, http.StatusInternalServerError, ui.MsgUnexpected)
		}()
		next.ServeHTTP(w, r)
	})
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
