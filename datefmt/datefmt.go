// Package datefmt formats dates the way the French interface shows them.
package datefmt

import (
	"fmt"
	"time"
)

var months = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Long formats t as "16 octobre 2026".
func Long(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// Relative describes how long ago t was, falling back to Long once it is
// more than a week old.
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	minutes := int(d / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 7:
		return Long(t)
	case days > 0:
		return ago(days, "jour")
	case hours > 0:
		return ago(hours, "heure")
	case minutes > 0:
		return ago(minutes, "minute")
	}
	return "À l'instant"
}

func ago(n int, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("Il y a %d %s", n, unit)
}
