package api

import (
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"docbuilder/intake"
	"docbuilder/notify"
)

const (
	uploadField     = "files"
	multipartMemory = 32 << 20
)

type uploadedFile struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

type rejectedFile struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type uploadResponse struct {
	Accepted []uploadedFile `json:"accepted"`
	Rejected []rejectedFile `json:"rejected"`
}

// upload takes dropped or picked files from a multipart form. Accepted text
// files come back with their content so the page can import them.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	resp := uploadResponse{Accepted: []uploadedFile{}, Rejected: []rejectedFile{}}
	opts := h.svc.Upload
	opts.OnUpload = func(f intake.File) {
		resp.Accepted = append(resp.Accepted, uploadedFile{
			Name:    f.Name,
			Size:    f.Size,
			Type:    f.Type,
			Content: h.textContent(f),
		})
	}
	opts.OnError = func(f intake.File, err error) {
		resp.Rejected = append(resp.Rejected, rejectedFile{Name: f.Name, Error: err.Error()})
		h.toast(r, err.Error(), notify.Error)
	}
	intake.New(opts).Handle(intake.FromMultipart(r.MultipartForm, uploadField))

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) textContent(f intake.File) string {
	if f.Open == nil || !strings.HasPrefix(f.Type, "text/") {
		return ""
	}
	rc, err := f.Open()
	if err != nil {
		h.log.Warn("upload open failed", "name", f.Name, "error", err)
		return ""
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || !utf8.Valid(data) {
		return ""
	}
	return string(data)
}
