package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docbuilder/datefmt"
	"docbuilder/editor"
	"docbuilder/notify"
	"docbuilder/templates"
	"docbuilder/ui"
)

const listPageSize = 12

type templateRequest struct {
	templates.Template
	Confirmed bool `json:"confirmed"`
}

type templateItem struct {
	*templates.Template
	Owned   bool   `json:"owned"`
	Created string `json:"created"`
	Updated string `json:"updated"`
}

func (h *handler) item(r *http.Request, t *templates.Template) templateItem {
	now := h.svc.Drafts.Now()
	return templateItem{
		Template: t,
		Owned:    t.Owner == clientID(r),
		Created:  datefmt.Long(t.CreatedAt),
		Updated:  datefmt.Relative(t.UpdatedAt, now),
	}
}

func (h *handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := listPageSize
	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	list, err := h.svc.Templates.List(r.Context(), templates.Query{
		Owner:      clientID(r),
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Visibility: templates.Visibility(q.Get("visibility")),
		Limit:      limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]templateItem, 0, len(list))
	for _, t := range list {
		items = append(items, h.item(r, t))
	}
	writeJSON(w, http.StatusOK, items)
}

// saveTemplate runs the editor's pre-save checks, then stores t. A template
// without placeholders needs req.Confirmed.
func (h *handler) saveTemplate(w http.ResponseWriter, r *http.Request, req *templateRequest) bool {
	st := editor.State{Title: req.Title, Content: req.Content}
	st.SetContent(st.Content)
	prompt, err := st.CheckSave()
	if err != nil {
		h.fail(w, r, err)
		return false
	}
	if prompt != "" && !req.Confirmed {
		c := ui.NewConfirm("Enregistrer le template", prompt)
		writeJSON(w, http.StatusConflict, checkSaveResponse{Confirm: &c})
		return false
	}

	req.Owner = clientID(r)
	if err := h.svc.Templates.Save(r.Context(), &req.Template); err != nil {
		h.fail(w, r, err)
		return false
	}
	return true
}

func (h *handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	req.ID = ""
	if !h.saveTemplate(w, r, &req) {
		return
	}
	// A saved template replaces its draft.
	if err := h.svc.Drafts.Discard(r.Context(), clientID(r)); err != nil {
		h.log.Warn("draft discard failed", "client", clientID(r), "error", err)
	}
	h.toast(r, fmt.Sprintf("Template \"%s\" créé avec succès !", req.Title), notify.Success)
	writeJSON(w, http.StatusCreated, h.item(r, &req.Template))
}

func (h *handler) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	if !h.saveTemplate(w, r, &req) {
		return
	}
	h.toast(r, fmt.Sprintf("Template \"%s\" modifié avec succès !", req.Title), notify.Success)
	writeJSON(w, http.StatusOK, h.item(r, &req.Template))
}

// visibleTemplate loads the template named in the URL, answering 404 or 403
// itself when it cannot be shown.
func (h *handler) visibleTemplate(w http.ResponseWriter, r *http.Request) (*templates.Template, bool) {
	t, err := h.svc.Templates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if !t.VisibleTo(clientID(r)) {
		msg := "Vous n'avez pas accès à ce template."
		h.toast(r, msg, notify.Error)
		writeError(w, http.StatusForbidden, msg)
		return nil, false
	}
	return t, true
}

func (h *handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.visibleTemplate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.item(r, t))
}

type templatePreview struct {
	Content string         `json:"content"`
	Preview editor.Preview `json:"preview"`
}

func (h *handler) previewTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.visibleTemplate(w, r)
	if !ok {
		return
	}
	filled := templates.Preview(t, h.svc.Drafts.Now())
	writeJSON(w, http.StatusOK, templatePreview{
		Content: filled,
		Preview: editor.RenderPreview(filled, editor.Scan(filled)),
	})
}

func (h *handler) confirmDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := h.visibleTemplate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ui.DeleteConfirm(fmt.Sprintf("Supprimer le template « %s » ?", t.Title)))
}

func (h *handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Templates.Delete(r.Context(), clientID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toast(r, "Template supprimé", notify.Success)
	w.WriteHeader(http.StatusNoContent)
}
