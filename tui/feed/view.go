package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/volunteerhub/hubterm/domain"
	"github.com/volunteerhub/hubterm/tui/common"
)

// View renders the event wall as a string.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())

	posts := m.Posts()
	if m.loading && len(posts) == 0 {
		b.WriteString(fmt.Sprintf("  %s Loading wall...\n", m.spinner.View()))
	} else if m.err != nil {
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press r to retry.\n")
	} else if len(posts) == 0 {
		b.WriteString("  No posts yet. Be the first!\n")
	} else {
		for i, post := range posts {
			b.WriteString(m.postView(post, i) + "\n")
		}
	}

	if m.loading && len(posts) > 0 {
		b.WriteString(fmt.Sprintf("  %s Refreshing...\n", m.spinner.View()))
	}

	if m.commentInput {
		b.WriteString("\n" + common.ConfirmStyle.Render("Comment: ") + m.commentBuffer + "▌")
		b.WriteString("\n" + common.StatusBarStyle.Render("  enter: send • esc: cancel"))
		return clipToWidth(b.String(), m.width)
	}

	b.WriteString(m.helpView())
	return clipToWidth(b.String(), m.width)
}

// clipToWidth trims rendered lines to the terminal width without breaking
// escape sequences mid-style.
func clipToWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if ansi.StringWidth(ln) <= width {
			continue
		}
		lines[i] = ansi.Cut(ln, 0, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) headerView() string {
	title := common.AppTitleStyle.Padding(1, 0, 0, 1).Render("🤝 HubTerm")
	name := common.EventTitleStyle.Margin(0, 0, 0, 2).Render(m.event.Title)

	registered := ""
	if m.actions.State().Registrations.Has(m.eventID) {
		registered = common.RegisteredBadgeStyle.Render("  ✓ registered")
	}

	meta := common.MetadataStyle.Margin(0, 0, 1, 2).Render(fmt.Sprintf(
		"📍 %s  •  %d volunteers  •  %d posts", m.event.Location, m.event.MemberCount, m.event.PostCount))

	return title + "\n" + name + registered + "\n" + meta + "\n"
}

func (m Model) postView(post domain.Post, index int) string {
	author := common.AuthorStyle.Render("@" + post.Author)
	if post.IsOwn {
		author += common.OwnBadgeStyle.Render("(you)")
	}
	timestamp := common.TimestampStyle.Render(post.CreatedAt.Format("Jan 02 15:04"))

	syncing := ""
	if domain.IsLocal(post.ID) {
		syncing = common.ConfirmStyle.Render(" (posting...)")
	}

	likeIcon := "♡"
	likeStyle := common.MetadataStyle
	if post.Liked {
		likeIcon = "♥"
		likeStyle = common.LikeActiveStyle
	}
	meta := fmt.Sprintf("%s %d  💬 %d", likeStyle.Render(likeIcon), post.LikeCount, len(post.Comments))

	var body strings.Builder
	if post.Title != "" {
		body.WriteString(common.EventTitleStyle.Render(post.Title) + "\n")
	}
	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).Render("┃ ")
	for _, line := range strings.Split(common.Truncate(post.Body, 200), "\n") {
		body.WriteString(indicator + common.ContentStyle.Render(line) + "\n")
	}

	item := fmt.Sprintf("%s%s  %s\n%s%s",
		author, syncing, timestamp, strings.TrimSuffix(body.String(), "\n"), "\n"+common.MetadataStyle.Render(meta))

	selected := index == m.cursor
	if selected {
		item += m.commentsView(post)
		item = common.SelectedStyle.Render(item)
		if m.confirmDelete {
			target := "post"
			if _, ok := m.selectedComment(); ok {
				target = "comment"
			}
			item += "\n" + common.ConfirmStyle.Render(fmt.Sprintf("  Delete this %s? (y/n)", target))
		}
	} else {
		if n := len(post.Comments); n > 0 {
			item += common.MetadataStyle.Render(fmt.Sprintf("  (%d comments)", n))
		}
		item = common.UnselectedStyle.Render(item)
	}

	return item
}

// commentsView expands the selected post's comments, newest last.
func (m Model) commentsView(post domain.Post) string {
	if len(post.Comments) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, comment := range post.Comments {
		author := common.AuthorStyle.Render("@" + comment.Author)
		if comment.IsOwn {
			author += common.OwnBadgeStyle.Render("(you)")
		}
		syncing := ""
		if domain.IsLocal(comment.ID) {
			syncing = common.ConfirmStyle.Render(" (sending...)")
		}

		line := fmt.Sprintf("  ↳ %s%s %s", author, syncing, common.ContentStyle.Render(common.Truncate(comment.Content, 120)))
		if m.commentCursor == i+1 {
			line = lipgloss.NewStyle().
				Background(lipgloss.Color("#333333")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Render(line)
		}
		b.WriteString("\n" + line)
	}
	return b.String()
}

func (m Model) helpView() string {
	items := []string{
		"j/k: focus",
		"l: like",
		"c: comment",
		"p/P: post",
	}
	if m.deletable() {
		items = append(items, "d: delete")
	}
	items = append(items, "R/U: register", "r: refresh", "esc: events", "q: quit")
	return common.StatusBarStyle.Render("  " + strings.Join(items, " • "))
}
