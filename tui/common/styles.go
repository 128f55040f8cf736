package common

import "github.com/charmbracelet/lipgloss"

var (
	// AppTitleStyle styles the application title. Rendered at call site with content.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6600")).
			Padding(1, 2, 0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")). // Dimmed grey
			Italic(true).
			MarginLeft(1)

	// EventTitleStyle styles the event name in headers and lists.
	EventTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)

	// AuthorStyle styles the post author name.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// TimestampStyle styles timestamps.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles post content text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// MetadataStyle styles like/comment counters.
	MetadataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// LikeActiveStyle highlights the like counter on posts the user liked.
	LikeActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796"))

	// SelectedStyle highlights the currently selected item.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6600")).
			Padding(0, 1)

	// OwnBadgeStyle highlights posts that belong to the user.
	OwnBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true).
			MarginLeft(1)

	// RegisteredBadgeStyle marks events the user is registered for.
	RegisteredBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A6DA95")).
				Bold(true)

	// UnselectedStyle gives unselected items a subtle greyed-out border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// ConfirmStyle styles the delete confirmation prompt.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6DA95")).
			Bold(true)

	// InfoStyle styles informational status messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7DC4E4"))
)
