package intake

import (
	"io"
	"mime/multipart"
)

// FromMultipart lists the files posted under field, in form order.
func FromMultipart(form *multipart.Form, field string) []File {
	if form == nil {
		return nil
	}
	headers := form.File[field]
	files := make([]File, 0, len(headers))
	for _, h := range headers {
		h := h
		files = append(files, File{
			Name: h.Filename,
			Size: h.Size,
			Type: h.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) { return h.Open() },
		})
	}
	return files
}
