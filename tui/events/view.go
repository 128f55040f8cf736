package events

import (
	"fmt"
	"strings"

	"github.com/volunteerhub/hubterm/tui/common"
)

// View renders the event list as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Padding(1, 0, 0, 1).Render("🤝 HubTerm")
	tagline := common.TaglineStyle.Render("<volunteer from your terminal>")
	b.WriteString(title + tagline + "\n\n")

	if m.loading && len(m.events) == 0 {
		b.WriteString(fmt.Sprintf("  %s Loading events...\n", m.spinner.View()))
	} else if m.err != nil {
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press r to retry.\n")
	} else if len(m.events) == 0 {
		b.WriteString("  No events on this page.\n")
	} else {
		for i, ev := range m.events {
			name := common.EventTitleStyle.Render(ev.Title)
			if m.Registered(ev.ID) {
				name += common.RegisteredBadgeStyle.Render(" ✓ registered")
			}

			desc := common.ContentStyle.Render(common.Truncate(ev.Description, 70))
			meta := common.MetadataStyle.Render(fmt.Sprintf("📍 %s  •  %d volunteers  •  %d posts",
				ev.Location, ev.MemberCount, ev.PostCount))

			item := fmt.Sprintf("%s\n%s\n%s", name, desc, meta)
			if i == m.cursor {
				item = common.SelectedStyle.Render(item)
			} else {
				item = common.UnselectedStyle.Render(item)
			}
			b.WriteString(item + "\n")
		}
		b.WriteString(common.MetadataStyle.Render(fmt.Sprintf("  page %d", m.page+1)) + "\n")
	}

	if m.loading && len(m.events) > 0 {
		b.WriteString(fmt.Sprintf("  %s Refreshing...\n", m.spinner.View()))
	}

	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) helpView() string {
	items := []string{
		"j/k: focus",
		"enter: open wall",
		"R: register",
		"U: unregister",
		"←/→: page",
		"r: refresh",
		"q: quit",
	}
	return common.StatusBarStyle.Render("  " + strings.Join(items, " • "))
}
