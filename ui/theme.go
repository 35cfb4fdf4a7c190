// Package ui holds the page-level pieces shared by every screen: theme,
// confirmation dialogs and the fixed user-facing messages.
package ui

import (
	"context"
	"fmt"

	"docbuilder/storage"
)

// Theme is the colour scheme applied to the page.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	// ThemeKey is the storage key of the preference.
	ThemeKey = "theme"
)

// ParseTheme returns Dark for "dark" and Light for anything else.
func ParseTheme(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Announcement is the toast shown after switching to t.
func (t Theme) Announcement() string {
	if t == Dark {
		return "Thème sombre activé"
	}
	return "Thème clair activé"
}

// Themes keeps each client's preference in storage.
type Themes struct {
	Storage storage.Storage
}

// Current returns the client's theme, Light when unset or unreadable.
func (th Themes) Current(ctx context.Context, ns string) Theme {
	v, ok, err := th.Storage.GetItem(ctx, ns, ThemeKey)
	if err != nil || !ok {
		return Light
	}
	return ParseTheme(v)
}

// Toggle flips and stores the client's theme.
func (th Themes) Toggle(ctx context.Context, ns string) (Theme, error) {
	next := th.Current(ctx, ns).Toggle()
	if err := th.Storage.SetItem(ctx, ns, ThemeKey, string(next)); err != nil {
		return th.Current(ctx, ns), fmt.Errorf("ui: store theme: %w", err)
	}
	return next, nil
}
