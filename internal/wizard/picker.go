package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// SongModel is the bubbletea model for the song picker.
type SongModel struct {
	title    string
	songs    []core.Song
	cursor   int
	offset   int
	selected *core.Song
	width    int
	height   int
}

// NewSongModel creates a new song picker model.
func NewSongModel(title string, songs []core.Song) SongModel {
	return SongModel{
		title:  title,
		songs:  songs,
		width:  80,
		height: 20,
	}
}

// Init initializes the model.
func (m SongModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SongModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if m.cursor < len(m.songs) {
				song := m.songs[m.cursor]
				m.selected = &song
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.songs)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = max(len(m.songs)-1, 0)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *SongModel) scroll() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m SongModel) rows() int {
	return max(m.height-6, 3)
}

// View renders the model.
func (m SongModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("♪ " + m.title))
	b.WriteString("\n\n")

	if len(m.songs) == 0 {
		b.WriteString(styles.Muted.Render("This listing has no songs"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.rows(), len(m.songs))
	for i := m.offset; i < end; i++ {
		b.WriteString(songRow(m.songs[i], i == m.cursor, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ navigate • enter play • esc quit"))
	return b.String()
}

func songRow(s core.Song, selected bool, width int) string {
	text := runewidth.Truncate(s.DisplayTitle(), max(width/2, 10), "…") +
		" " + styles.Muted.Render(runewidth.Truncate(s.DisplayArtist(), max(width/3, 8), "…"))
	line := styles.Heart(s.Liked) + " " + text
	if selected {
		return styles.Selected.Render("▸ " + line)
	}
	return "  " + line
}

// Selected returns the selected song, or nil if none.
func (m SongModel) Selected() *core.Song {
	return m.selected
}

// RunSongPicker runs the song picker and returns the selected song.
func RunSongPicker(title string, songs []core.Song) (*core.Song, error) {
	p := tea.NewProgram(NewSongModel(title, songs), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	return finalModel.(SongModel).Selected(), nil
}
