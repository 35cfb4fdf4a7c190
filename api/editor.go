package api

import (
	"net/http"

	"docbuilder/editor"
	"docbuilder/notify"
	"docbuilder/ui"
)

type contentRequest struct {
	Content string `json:"content"`
}

type editRequest struct {
	Content   string           `json:"content"`
	Selection editor.Selection `json:"selection"`
	Action    editor.Action    `json:"action,omitempty"`
	Name      string           `json:"name,omitempty"`
}

type scanResponse struct {
	Fields editor.FieldSet      `json:"fields"`
	List   editor.FieldListView `json:"list"`
}

func (h *handler) fieldLimit() int {
	if n := h.svc.Editor.FieldLimit; n != 0 {
		return n
	}
	return editor.DefaultFieldLimit
}

func (h *handler) scan(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decode(w, r, &req) {
		return
	}
	fields := editor.Scan(req.Content)
	writeJSON(w, http.StatusOK, scanResponse{Fields: fields, List: editor.FieldList(fields, h.fieldLimit())})
}

// preview returns the whole editor view for the posted form.
func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	var st editor.State
	if !decode(w, r, &st) {
		return
	}
	if st.Step == 0 {
		st.Step = editor.EditorStep
	}
	st.SetContent(st.Content)
	writeJSON(w, http.StatusOK, st.View(h.fieldLimit()))
}

func (h *handler) format(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decode(w, r, &req) {
		return
	}
	edit, err := editor.Format(req.Content, req.Selection, req.Action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.toast(r, "Formatage appliqué", notify.Success)
	writeJSON(w, http.StatusOK, edit)
}

func (h *handler) insertField(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !decode(w, r, &req) {
		return
	}
	edit, err := editor.InsertField(req.Content, req.Selection, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, edit)
}

func (h *handler) autoFormat(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decode(w, r, &req) {
		return
	}
	out := editor.AutoFormat(req.Content)
	h.toast(r, "Auto-formatage appliqué", notify.Success)
	writeJSON(w, http.StatusOK, contentRequest{Content: out})
}

type checkSaveResponse struct {
	Confirm *ui.Confirm `json:"confirm,omitempty"`
}

// checkSave validates the form before submission. A confirm dialog in the
// response must be accepted before saving.
func (h *handler) checkSave(w http.ResponseWriter, r *http.Request) {
	var st editor.State
	if !decode(w, r, &st) {
		return
	}
	st.SetContent(st.Content)
	prompt, err := st.CheckSave()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var resp checkSaveResponse
	if prompt != "" {
		c := ui.NewConfirm("Enregistrer le template", prompt)
		resp.Confirm = &c
	}
	writeJSON(w, http.StatusOK, resp)
}
