package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docbuilder/draft"
	"docbuilder/intake"
	"docbuilder/notify"
	"docbuilder/snippet"
	"docbuilder/templates"
	"docbuilder/ui"
)

// EditorOptions tunes live editor sessions.
type EditorOptions struct {
	AutosaveInterval time.Duration
	RestoreDelay     time.Duration
	PreviewDebounce  time.Duration
	FieldLimit       int
}

// Services are the collaborators the handlers work with.
type Services struct {
	Drafts    *draft.Store
	Notify    *notify.Center
	Snippets  *snippet.Manager
	Templates *templates.Repository
	Themes    ui.Themes
	Upload    intake.Options
	Editor    EditorOptions

	// ToastDuration applies to toasts without a specific duration. Zero
	// means notify.DefaultDuration.
	ToastDuration time.Duration
	Log           *slog.Logger
}

func RegisterRoutes(svc *Services, staticFS fs.FS) http.Handler {
	if svc.Log == nil {
		svc.Log = slog.Default()
	}
	h := &handler{svc: svc, log: svc.Log}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(clientIdentity)
	r.Use(h.recoverer)
	r.Use(csrfProtect)

	r.Get("/api/csrf", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	// Editor
	r.Post("/api/scan", h.scan)
	r.Post("/api/preview", h.preview)
	r.Post("/api/format", h.format)
	r.Post("/api/insert-field", h.insertField)
	r.Post("/api/autoformat", h.autoFormat)
	r.Post("/api/check-save", h.checkSave)

	// WebSocket
	r.Get("/api/ws", h.handleWS)

	// Drafts
	r.Get("/api/draft", h.getDraft)
	r.Put("/api/draft", h.putDraft)
	r.Delete("/api/draft", h.deleteDraft)

	// Snippets
	r.Get("/api/snippets", h.getSnippets)
	r.Put("/api/snippets", h.putSnippets)
	r.Post("/api/snippets/{id}/use", h.useSnippet)
	r.Post("/api/snippets/{id}/insert", h.insertSnippet)

	// Templates
	r.Get("/api/templates", h.listTemplates)
	r.Post("/api/templates", h.createTemplate)
	r.Get("/api/templates/{id}", h.getTemplate)
	r.Put("/api/templates/{id}", h.updateTemplate)
	r.Delete("/api/templates/{id}", h.deleteTemplate)
	r.Get("/api/templates/{id}/preview", h.previewTemplate)
	r.Get("/api/templates/{id}/delete-confirm", h.confirmDeleteTemplate)

	r.Post("/api/uploads", h.upload)

	r.Get("/api/theme", h.getTheme)
	r.Post("/api/theme/toggle", h.toggleTheme)

	// Notifications
	r.Get("/api/notifications", h.listNotifications)
	r.Post("/api/notifications", h.createNotification)
	r.Delete("/api/notifications/{id}", h.dismissNotification)

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// In dev mode staticFS is already rooted at the asset directory, so Sub
	// succeeds but finds nothing. Probe index.html to detect this.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}

	// Serve HTML pages by reading from the FS directly.
	// http.FileServer redirects ".../index.html" to "./", so avoid it here.
	r.Get("/", serveFile(staticSub, "index.html"))

	fileServer := http.FileServer(http.FS(staticSub))
	r.Get("/css/*", fileServer.ServeHTTP)
	r.Get("/js/*", fileServer.ServeHTTP)

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	svc *Services
	log *slog.Logger
}
