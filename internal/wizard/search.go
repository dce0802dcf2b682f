package wizard

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// SearchFunc runs a server search.
type SearchFunc func(query string) ([]core.Song, error)

// SearchModel is the bubbletea model for the search wizard.
type SearchModel struct {
	input      textinput.Model
	results    []core.Song
	cursor     int
	searchFunc SearchFunc
	selected   *core.Song
	err        error
	debounce   time.Duration
	lastQuery  string
	searching  bool
	width      int
	height     int
}

// NewSearchModel creates a new search wizard model.
func NewSearchModel(searchFunc SearchFunc, initial string) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Search songs and artists..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50
	ti.SetValue(initial)

	return SearchModel{
		input:      ti,
		searchFunc: searchFunc,
		debounce:   300 * time.Millisecond,
		width:      80,
		height:     20,
	}
}

// Init initializes the model.
func (m SearchModel) Init() tea.Cmd {
	if q := m.input.Value(); q != "" {
		return tea.Batch(textinput.Blink, m.debounceCmd(q))
	}
	return textinput.Blink
}

// debounceMsg is sent after the debounce period.
type debounceMsg struct {
	query string
}

// searchResultsMsg contains search results.
type searchResultsMsg struct {
	query   string
	results []core.Song
	err     error
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.cursor < len(m.results) {
				song := m.results[m.cursor]
				m.selected = &song
				return m, tea.Quit
			}
			return m, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}
		return m, nil

	case searchResultsMsg:
		// Results for a query the user has since typed past are dropped.
		if msg.query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.results = msg.results
		m.err = msg.err
		m.cursor = 0
		return m, nil
	}

	before := m.input.Value()
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	if v := m.input.Value(); v != before {
		cmds = append(cmds, m.debounceCmd(v))
	}

	return m, tea.Batch(cmds...)
}

func (m SearchModel) debounceCmd(query string) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{query: query}
	})
}

// doSearch performs the search.
func (m SearchModel) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return searchResultsMsg{query: query}
		}
		results, err := m.searchFunc(query)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the model.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("🔍 Search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.Failed.Render("Error: " + m.err.Error()))
	case m.searching:
		b.WriteString(styles.Muted.Render("Searching..."))
	case len(m.results) == 0 && m.lastQuery != "":
		b.WriteString(styles.Muted.Render("No results found"))
	default:
		maxResults := max(m.height-10, 5)
		for i, song := range m.results {
			if i >= maxResults {
				b.WriteString(styles.Dim.Render("  ...and more"))
				break
			}
			b.WriteString(songRow(song, i == m.cursor, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ navigate • enter play • esc quit"))
	return b.String()
}

// Selected returns the selected song, or nil if none.
func (m SearchModel) Selected() *core.Song {
	return m.selected
}

// RunSearch runs the search wizard and returns the selected song.
func RunSearch(searchFunc SearchFunc, initial string) (*core.Song, error) {
	p := tea.NewProgram(NewSearchModel(searchFunc, initial), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SearchModel).Selected(), nil
}
