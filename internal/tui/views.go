package tui

import (
	"fmt"
	"strings"

	"github.com/gametracker/gametracker/internal/api"
)

// renderRestoring covers the window between startup and the resolved
// session restore.
func (m Model) renderRestoring() string {
	return fmt.Sprintf("\n  %s Restoring session...\n", m.spin.View())
}

// renderDashboard renders the signed-in landing screen
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("🎮 GameTracker"))
	b.WriteString("\n\n")

	if user, ok := m.store.CurrentUser(); ok {
		b.WriteString(m.styles.Muted.Render("Signed in as "))
		b.WriteString(m.styles.Status.Render(user.Username))
		if user.DisplayName != "" {
			b.WriteString(m.styles.Muted.Render(" (" + user.DisplayName + ")"))
		}
		b.WriteString("\n\n")
	}

	menu := [][2]string{
		{"g", "browse the game catalog"},
		{"m", "open your library"},
		{"f", "read the forum"},
		{"?", "show all key bindings"},
		{"q", "quit"},
	}
	for _, entry := range menu {
		b.WriteString("  ")
		b.WriteString(m.styles.Key.Render(entry[0]))
		b.WriteString("  ")
		b.WriteString(m.styles.KeyDesc.Render(entry[1]))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	return b.String()
}

// renderForm renders the login or register screen
func (m Model) renderForm() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("🎮 GameTracker"))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.lastError != "" {
		b.WriteString(m.styles.Error.Render(m.lastError))
		b.WriteString("\n\n")
	}

	if m.formBusy {
		b.WriteString(fmt.Sprintf("%s Contacting the server...\n", m.spin.View()))
		return b.String()
	}

	if m.form != nil {
		b.WriteString(m.form.View())
	}

	hint := "esc back"
	if m.route == RouteLogin {
		hint += " · press r on the previous screen to create an account"
	}
	b.WriteString(m.styles.Help.Render(hint))
	return b.String()
}

// renderGames renders the catalog with the in-memory filter applied
func (m Model) renderGames() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Game Catalog"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("%s Loading games...\n", m.spin.View()))
		return b.String()
	}

	games := m.visibleGames()
	if len(games) == 0 {
		b.WriteString(m.styles.Muted.Render("No games match."))
		b.WriteString("\n")
	}
	for i, game := range games {
		line := fmt.Sprintf("%s — %s (%s)", game.Name, game.Genre, game.Platform)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString(m.styles.Help.Render("/ filter · ↑/↓ move · esc back · q quit"))
	return b.String()
}

// renderLibrary renders the user's personal library
func (m Model) renderLibrary() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("My Library"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("%s Loading your library...\n", m.spin.View()))
		return b.String()
	}

	if len(m.library) == 0 {
		b.WriteString(m.styles.Muted.Render("Your library is empty. Browse the catalog with g."))
		b.WriteString("\n")
	}
	for i, entry := range m.library {
		name := "(unknown game)"
		if entry.Game != nil {
			name = entry.Game.Name
		}
		line := fmt.Sprintf("%s · %s · %.1fh", name, entry.Status, entry.HoursPlayed)
		if entry.PersonalRating > 0 {
			line += fmt.Sprintf(" · %d/10", entry.PersonalRating)
		}
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString(m.styles.Help.Render("↑/↓ move · esc back · q quit"))
	return b.String()
}

// renderForum renders the forum post list
func (m Model) renderForum() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Forum"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("%s Loading posts...\n", m.spin.View()))
		return b.String()
	}

	if len(m.posts) == 0 {
		b.WriteString(m.styles.Muted.Render("No posts yet."))
		b.WriteString("\n")
	}
	for i, post := range m.posts {
		marker := "  "
		if post.Pinned {
			marker = "📌 "
		}
		author := ""
		if post.Author != nil {
			author = " by " + post.Author.Username
		}
		line := fmt.Sprintf("%s%s%s · %d 💬", marker, post.Title, author, post.CommentCount)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString(m.styles.Help.Render("↑/↓ move · enter open · esc back · q quit"))
	return b.String()
}

// renderPost renders a single post with its comment tree
func (m Model) renderPost() string {
	var b strings.Builder

	if m.loading || m.post == nil {
		b.WriteString(fmt.Sprintf("%s Loading post...\n", m.spin.View()))
		return b.String()
	}

	b.WriteString(m.styles.Title.Render(m.post.Title))
	b.WriteString("\n")
	meta := m.post.Category
	if m.post.Author != nil {
		meta += " · " + m.post.Author.Username
	}
	meta += fmt.Sprintf(" · %d views · %d likes", m.post.Views, len(m.post.Likes))
	b.WriteString(m.styles.Subtitle.Render(meta))
	b.WriteString("\n")
	b.WriteString(m.styles.Border.Render(m.post.Content))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Status.Render(fmt.Sprintf("Comments (%d)", len(m.comments))))
	b.WriteString("\n")
	for _, comment := range m.comments {
		b.WriteString(m.renderComment(comment, 0))
	}

	b.WriteString(m.renderStatusLine())
	b.WriteString(m.styles.Help.Render("esc back · q quit"))
	return b.String()
}

// renderComment renders one comment and its replies, indented
func (m Model) renderComment(comment api.ForumComment, depth int) string {
	var b strings.Builder

	indent := strings.Repeat("  ", depth+1)
	author := "anonymous"
	if comment.Author != nil {
		author = comment.Author.Username
	}
	header := author
	if comment.Edited {
		header += " (edited)"
	}
	b.WriteString(indent)
	b.WriteString(m.styles.Status.Render(header))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(comment.Content)
	b.WriteString("\n")

	for _, reply := range comment.Replies {
		b.WriteString(m.renderComment(reply, depth+1))
	}
	return b.String()
}

// renderStatusLine shows the transient notice or the last error
func (m Model) renderStatusLine() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n")
	}
	if m.lastError != "" {
		b.WriteString(m.styles.Error.Render(m.lastError))
		b.WriteString("\n")
	}
	return b.String()
}

// renderHelp renders the key binding overview
func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Key Bindings"))
	b.WriteString("\n\n")

	bindings := [][2]string{
		{"d", "dashboard"},
		{"g", "game catalog"},
		{"m", "my library"},
		{"f", "forum"},
		{"l", "sign in"},
		{"r", "create account"},
		{"/", "filter the game list"},
		{"↑/↓, k/j", "move selection"},
		{"enter", "open selected post"},
		{"esc", "go back"},
		{"?", "toggle this screen"},
		{"q, ctrl+c", "quit"},
	}
	for _, binding := range bindings {
		b.WriteString("  ")
		b.WriteString(m.styles.Key.Render(fmt.Sprintf("%-10s", binding[0])))
		b.WriteString(m.styles.KeyDesc.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("\nesc back"))
	return b.String()
}
