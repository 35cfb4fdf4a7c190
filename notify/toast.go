package notify

import "time"

// Severity selects the colour and icon of a toast.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// DefaultDuration is how long a toast stays up when no duration is given.
const DefaultDuration = 4 * time.Second

// ParseSeverity returns the severity named s, falling back to Info.
func ParseSeverity(s string) Severity {
	switch sev := Severity(s); sev {
	case Success, Error, Warning, Info:
		return sev
	}
	return Info
}

// Class is the Bootstrap colour class for the toast body.
func (s Severity) Class() string {
	switch s {
	case Success:
		return "text-bg-success"
	case Error:
		return "text-bg-danger"
	case Warning:
		return "text-bg-warning"
	}
	return "text-bg-info"
}

// Icon is the Font Awesome icon shown next to the message.
func (s Severity) Icon() string {
	switch s {
	case Success:
		return "fa-check-circle"
	case Error:
		return "fa-exclamation-triangle"
	case Warning:
		return "fa-exclamation-circle"
	}
	return "fa-info-circle"
}

// Toast is a transient notification shown to one client.
type Toast struct {
	ID        string        `json:"id"`
	Client    string        `json:"-"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	Class     string        `json:"class"`
	Icon      string        `json:"icon"`
	Duration  time.Duration `json:"-"`
	DelayMS   int64         `json:"delay"`
	CreatedAt time.Time     `json:"created_at"`

	timer *time.Timer
}

// EventType tells subscribers whether a toast appeared or went away.
type EventType string

const (
	Shown  EventType = "shown"
	Hidden EventType = "hidden"
)

// Event is delivered to subscribers of a client.
type Event struct {
	Type  EventType `json:"type"`
	Toast Toast     `json:"toast"`
}
