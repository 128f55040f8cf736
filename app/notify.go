package app

// Level grades a user-facing notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelError
)

// Notifier receives exactly one notification per settled action. The core
// does not know how notifications render; the TUI maps them onto its
// status bar.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }
