package compose

import (
	"fmt"
	"strings"

	"github.com/volunteerhub/hubterm/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	if m.err != nil {
		return common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("🤝 HubTerm"))
		b.WriteString("  New Post\n\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n\n")
		b.WriteString(common.StatusBarStyle.Render(
			fmt.Sprintf("  ctrl+d: publish • esc: cancel • %d/2000 chars",
				len(m.textarea.Value())),
		))
		return b.String()
	}

	return ""
}
