// Package intake validates files dropped on or picked in the editor before
// they are handed to an upload callback.
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

// DefaultMaxSize is the largest accepted file, in bytes.
const DefaultMaxSize = 10 << 20

var (
	ErrTooLarge    = errors.New("file too large")
	ErrNotAccepted = errors.New("file type not accepted")
)

// File describes one candidate file. Open is nil when the content is not
// available, e.g. in tests.
type File struct {
	Name string
	Size int64
	Type string
	Open func() (io.ReadCloser, error)
}

// RejectError is passed to OnError for each refused file.
type RejectError struct {
	Name string
	Err  error
}

func (e *RejectError) Error() string {
	if errors.Is(e.Err, ErrNotAccepted) {
		return fmt.Sprintf("Le type du fichier %s n'est pas accepté.", e.Name)
	}
	return fmt.Sprintf("Le fichier %s est trop volumineux.", e.Name)
}

func (e *RejectError) Unwrap() error { return e.Err }

// Options configures an Intake. Zero values fall back to the defaults.
type Options struct {
	// Accept uses the syntax of the HTML accept attribute: a comma separated
	// list of MIME types, type/* wildcards and .ext suffixes. Empty means */*.
	Accept   string
	MaxSize  int64
	Multiple bool

	OnUpload func(File)
	OnError  func(File, error)
}

// Intake dispatches accepted files one at a time.
type Intake struct {
	opts   Options
	accept []string
}

func New(opts Options) *Intake {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.OnUpload == nil {
		opts.OnUpload = func(File) {}
	}
	if opts.OnError == nil {
		opts.OnError = func(File, error) {}
	}
	in := &Intake{opts: opts}
	for _, a := range strings.Split(opts.Accept, ",") {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" && a != "*/*" {
			in.accept = append(in.accept, a)
		}
	}
	return in
}

// Result counts the outcome of one Handle call.
type Result struct {
	Accepted int
	Rejected int
}

// Handle checks files and calls OnUpload or OnError for each one. Unless
// Multiple is set only the first file is considered.
func (in *Intake) Handle(files []File) Result {
	if !in.opts.Multiple && len(files) > 1 {
		files = files[:1]
	}
	var res Result
	for _, f := range files {
		if err := in.check(f); err != nil {
			res.Rejected++
			in.opts.OnError(f, &RejectError{Name: f.Name, Err: err})
			continue
		}
		res.Accepted++
		in.opts.OnUpload(f)
	}
	return res
}

func (in *Intake) check(f File) error {
	if f.Size > in.opts.MaxSize {
		return ErrTooLarge
	}
	if !in.accepts(f) {
		return ErrNotAccepted
	}
	return nil
}

func (in *Intake) accepts(f File) bool {
	if len(in.accept) == 0 {
		return true
	}
	typ := strings.ToLower(f.Type)
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		typ = mt
	}
	ext := strings.ToLower(path.Ext(f.Name))
	for _, a := range in.accept {
		switch {
		case strings.HasPrefix(a, "."):
			if ext == a {
				return true
			}
		case strings.HasSuffix(a, "/*"):
			if strings.HasPrefix(typ, strings.TrimSuffix(a, "*")) {
				return true
			}
		case typ == a:
			return true
		}
	}
	return false
}
