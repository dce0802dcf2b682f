package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/session"
	"github.com/tessro/jukebar/internal/tui/components"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	switch {
	case m.session.Phase == session.PhaseWarning && !m.expired:
		return m.overlay(m.renderSessionWarning(), styles.WarningBorder)
	case m.showHelp:
		return m.overlay(m.renderHelp(), styles.BorderStyle)
	case m.confirmDelete != nil:
		return m.overlay(m.renderConfirm(), styles.WarningBorder)
	case m.showSearch:
		return m.overlay(m.renderSearch(), styles.FocusedBorder)
	}

	// Layout, top to bottom: top bar, panels, player bar, status line.
	bodyHeight := max(m.height-2-components.PlayerBarHeight, 3)
	leftWidth := m.width * 65 / 100
	rightWidth := m.width - leftWidth

	var body string
	if m.showNowPlaying {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			m.nowPlaying.Render(m.state, min(70, m.width-4)))
	} else {
		list := m.listView.Render(m.listTitle(), m.songs, m.state, leftWidth-2, bodyHeight-2, m.focusedPanel == PanelListing)
		upHeight := bodyHeight / 3
		up := m.upNext.Render(m.ctrl.Playlist(), m.state.Index, m.state.Repeat, rightWidth-2, upHeight-2)
		hist := m.history.Render(rightWidth-2, bodyHeight-upHeight-2, m.focusedPanel == PanelHistory)
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, lipgloss.JoinVertical(lipgloss.Left, up, hist))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		body,
		m.bar.Render(m.state, m.width),
		m.renderStatusBar(),
	)
}

func (m Model) listTitle() string {
	title := m.pageTitle
	if m.loading {
		title += " (loading)"
	}
	return title
}

func (m Model) renderTopBar() string {
	left := styles.Highlight.Render("jukebar")

	var right string
	switch {
	case m.expired:
		right = styles.Paused.Render("signed out")
	case m.opts.Library != nil && m.opts.Library.IsAuthenticated():
		right = styles.Playing.Render("signed in")
	default:
		right = styles.Dim.Render("guest")
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return " " + left + strings.Repeat(" ", gap) + right + " "
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(keys.ShortHelp())

	switch {
	case m.lastError != nil:
		status = styles.Failed.Render(jerrors.Notice(m.lastError))
		if m.state.FailedID != "" {
			status += styles.Dim.Render("  R:retry")
		}
	case m.notice != "":
		status = styles.Playing.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) overlay(content string, border lipgloss.Style) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		border.Padding(1, 2).Render(content))
}

func (m Model) renderHelp() string {
	title := "jukebar - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(title),
		divider,
		"",
		m.help.FullHelpView(keys.FullHelp()),
		"",
		styles.Dim.Render("Mouse: click or drag the progress and volume bars"),
		styles.Dim.Render("Press ? or Esc to close"),
	)
}

func (m Model) renderSessionWarning() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Session Timeout Warning"),
		"",
		"Your session will expire in "+styles.Paused.Render(session.Countdown(m.session.Remaining))+" due to inactivity.",
		"",
		styles.Dim.Render("Press any key to keep me signed in"),
	)
}

func (m Model) renderConfirm() string {
	song := m.confirmDelete
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Delete song?"),
		"",
		fmt.Sprintf("%s — %s", song.DisplayTitle(), song.DisplayArtist()),
		"",
		styles.Dim.Render("This removes it from the server library. y:delete  n:cancel"),
	)
}

func (m Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.searchErr != nil:
		b.WriteString(styles.Failed.Render(jerrors.Notice(m.searchErr)))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.searchResults) == 0 && m.searchInput.Value() != "" && m.lastQuery != "":
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		const maxResults = 10
		for i, song := range m.searchResults {
			if i >= maxResults {
				b.WriteString(styles.Muted.Render("  ...and more"))
				break
			}
			line := song.DisplayTitle() + " " + styles.Muted.Render(song.DisplayArtist())
			if i == m.searchCursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("↑/↓:nav  Enter:play  Esc:close"))

	return lipgloss.NewStyle().Width(60).Render(b.String())
}
