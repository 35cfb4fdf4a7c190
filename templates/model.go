// Package templates persists saved document templates and the fields
// derived from their placeholders.
package templates

import (
	"errors"
	"strings"
	"time"

	"docbuilder/editor"
)

var ErrNotFound = errors.New("template not found")

// Field is one fillable placeholder of a template.
type Field struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	Type        editor.FieldType `json:"type"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder"`
	Order       int              `json:"order"`
}

// Template is a saved document model. Owner is the client namespace that
// created it.
type Template struct {
	ID          string    `json:"id"`
	Owner       string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	IsPublic    bool      `json:"isPublic"`
	Fields      []Field   `json:"fields"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VisibleTo reports whether owner may read t.
func (t *Template) VisibleTo(owner string) bool {
	return t.IsPublic || t.Owner == owner
}

func (t *Template) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &editor.ValidationError{Field: "title", Message: "Veuillez entrer un titre pour le template"}
	}
	if strings.TrimSpace(t.Content) == "" {
		return &editor.ValidationError{Field: "content", Message: "Veuillez entrer le contenu du template"}
	}
	return nil
}

// NewField describes a placeholder that has not been configured yet. order
// is the position among the template's fields.
func NewField(name string, order int) Field {
	label := editor.Label(name)
	return Field{
		Name:        name,
		Label:       label,
		Type:        editor.GuessType(name),
		Required:    editor.IsRequired(name),
		Placeholder: "Entrez " + strings.ToLower(label),
		Order:       order * 10,
	}
}

// deriveFields keeps the configured fields still present in content and
// appends a new field for each placeholder not configured yet. Names that
// are not identifiers are left out.
func deriveFields(content string, existing []Field) []Field {
	names := editor.Scan(content)
	byName := make(map[string]Field, len(existing))
	for _, f := range existing {
		byName[f.Name] = f
	}

	out := make([]Field, 0, len(names))
	for i, name := range names {
		if f, ok := byName[name]; ok {
			out = append(out, f)
			continue
		}
		if editor.ValidateFieldName(name) != nil {
			continue
		}
		out = append(out, NewField(name, i))
	}
	return out
}

// Fill replaces each {{name}} in content with values[name]. Placeholders
// without a value are left as they are.
func Fill(content string, values map[string]string) string {
	if len(values) == 0 {
		return content
	}
	pairs := make([]string, 0, 2*len(values))
	for name, v := range values {
		pairs = append(pairs, editor.Placeholder(name), v)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// Preview fills t with example data for each of its fields.
func Preview(t *Template, now time.Time) string {
	values := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		values[f.Name] = editor.SampleValue(f.Name, now)
	}
	return Fill(t.Content, values)
}
