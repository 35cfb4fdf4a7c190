// Package editor holds the template editor logic: placeholder scanning, the
// field catalog, preview rendering and the text commands behind the toolbar.
// Nothing here touches the network or the browser; handlers pass text in and
// get view descriptions back.
package editor

import (
	"regexp"
	"strings"
	"unicode"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// FieldSet is the set of distinct placeholder names found in a text, kept in
// order of first appearance.
type FieldSet []string

// Contains reports whether name is in the set.
func (fs FieldSet) Contains(name string) bool {
	for _, f := range fs {
		if f == name {
			return true
		}
	}
	return false
}

// Scan returns the placeholder names written as {{name}} in text. Names are
// trimmed; empty names and names containing whitespace are skipped.
func Scan(text string) FieldSet {
	matches := placeholderRe.FindAllStringSubmatch(text, -1)
	fields := make(FieldSet, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields
}

// Placeholder returns the literal token for name.
func Placeholder(name string) string {
	return "{{" + name + "}}"
}
