package editor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnknownAction = errors.New("unknown format action")

// ValidationError reports input the user has to fix before an operation can
// go ahead. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Action is a formatting command applied to the selected text.
type Action string

const (
	Bold      Action = "bold"
	Italic    Action = "italic"
	Underline Action = "underline"
	Center    Action = "center"
	Justify   Action = "justify"
)

// Selection is a rune range inside the editor text.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Edit is the editor text after a command, with the selection to restore.
type Edit struct {
	Text      string    `json:"text"`
	Selection Selection `json:"selection"`
}

func (s Selection) clamp(n int) Selection {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.Start > n {
		s.Start = n
	}
	if s.End < 0 {
		s.End = 0
	}
	if s.End > n {
		s.End = n
	}
	if s.Start > s.End {
		s.Start = s.End
	}
	return s
}

func wrap(action Action, selected string) (string, error) {
	switch action {
	case Bold:
		return "**" + selected + "**", nil
	case Italic:
		return "*" + selected + "*", nil
	case Underline:
		return "_" + selected + "_", nil
	case Center:
		return "[CENTER]" + selected + "[/CENTER]", nil
	case Justify:
		return "[JUSTIFY]" + selected + "[/JUSTIFY]", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Format wraps the selected text with the markup for action. The returned
// selection covers the whole formatted fragment.
func Format(text string, sel Selection, action Action) (Edit, error) {
	runes := []rune(text)
	sel = sel.clamp(len(runes))
	if sel.Start == sel.End {
		return Edit{}, &ValidationError{Field: "selection", Message: "Veuillez sélectionner du texte à formater"}
	}
	formatted, err := wrap(action, string(runes[sel.Start:sel.End]))
	if err != nil {
		return Edit{}, err
	}
	out := string(runes[:sel.Start]) + formatted + string(runes[sel.End:])
	return Edit{
		Text:      out,
		Selection: Selection{Start: sel.Start, End: sel.Start + len([]rune(formatted))},
	}, nil
}

// Insert replaces the selection with fragment and places the cursor after it.
func Insert(text string, sel Selection, fragment string) Edit {
	runes := []rune(text)
	sel = sel.clamp(len(runes))
	out := string(runes[:sel.Start]) + fragment + string(runes[sel.End:])
	cursor := sel.Start + len([]rune(fragment))
	return Edit{Text: out, Selection: Selection{Start: cursor, End: cursor}}
}

var fieldNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateFieldName checks a name typed into the quick field prompt.
func ValidateFieldName(name string) error {
	if !fieldNameRe.MatchString(name) {
		return &ValidationError{
			Field:   "field_name",
			Message: "Le nom du champ doit contenir uniquement des lettres, chiffres et underscores",
		}
	}
	return nil
}

// InsertField validates name and inserts its placeholder at the selection.
func InsertField(text string, sel Selection, name string) (Edit, error) {
	if err := ValidateFieldName(name); err != nil {
		return Edit{}, err
	}
	return Insert(text, sel, Placeholder(name)), nil
}

var (
	blanksRe       = regexp.MustCompile(`[ \t]+`)
	blankLinesRe   = regexp.MustCompile(`\n{3,}`)
	sentenceHeadRe = regexp.MustCompile(`\.\s+([a-z])`)
)

// AutoFormat collapses runs of spaces, caps blank lines at one and
// capitalises the first letter after a full stop.
func AutoFormat(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blanksRe.ReplaceAllString(text, " ")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return sentenceHeadRe.ReplaceAllStringFunc(text, func(m string) string {
		return m[:len(m)-1] + strings.ToUpper(m[len(m)-1:])
	})
}

// Command is an editor command bound to a keyboard shortcut.
type Command string

const (
	CmdSave    Command = "save"
	CmdBold    Command = "bold"
	CmdItalic  Command = "italic"
	CmdPreview Command = "preview"
)

// Shortcut maps Ctrl/Cmd key combinations to editor commands. Keys without
// the modifier, and unbound keys, return false.
func Shortcut(key string, ctrl, meta bool) (Command, bool) {
	if !ctrl && !meta {
		return "", false
	}
	switch strings.ToLower(key) {
	case "s":
		return CmdSave, true
	case "b":
		return CmdBold, true
	case "i":
		return CmdItalic, true
	case "p":
		return CmdPreview, true
	}
	return "", false
}
