// Package tui is the terminal player: a listing panel, a player bar with
// progress and volume sliders, and overlays for search, help, the current
// song and the session warning.
package tui

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/listing"
	"github.com/tessro/jukebar/internal/player"
	"github.com/tessro/jukebar/internal/session"
	"github.com/tessro/jukebar/internal/tui/components"
	"github.com/tessro/jukebar/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelListing Panel = iota
	PanelHistory
)

const (
	searchDebounce = 300 * time.Millisecond
	toastDuration  = 5 * time.Second
	seekStep       = 10 * time.Second
	volumeStep     = 0.1
	actionTimeout  = 30 * time.Second
)

// Library is the server surface the TUI browses.
type Library interface {
	Page(ctx context.Context, path string) ([]byte, error)
	Search(ctx context.Context, query string) ([]byte, error)
	URL(path string) string
	IsAuthenticated() bool
}

// Prefs persists UI preferences such as the theme.
type Prefs interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Options wires the TUI to the rest of the program.
type Options struct {
	Controller *player.Controller
	Library    Library
	Prefs      Prefs            // optional
	Monitor    *session.Monitor // nil when signed out
	Refresh    time.Duration
	Page       string
	Theme      string
	Logger     zerolog.Logger

	// PrefsChanged delivers a signal whenever another process rewrote
	// the preferences file.
	PrefsChanged <-chan struct{}
}

// Model is the main TUI model
type Model struct {
	opts   Options
	ctrl   *player.Controller
	events chan core.Event
	log    zerolog.Logger

	width        int
	height       int
	focusedPanel Panel

	// State
	state     core.PlaybackState
	songs     []core.Song
	pageTitle string
	loading   bool

	// Components
	bar        *components.PlayerBar
	listView   *components.Listing
	history    *components.History
	upNext     *components.UpNext
	nowPlaying *components.NowPlaying
	help       help.Model

	// Overlays
	showHelp       bool
	showNowPlaying bool
	confirmDelete  *core.Song

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []core.Song
	searchCursor  int
	searching     bool
	lastQuery     string
	searchErr     error

	// Session
	session session.Status
	expired bool

	// Toasts
	lastError    error
	errorExpiry  time.Time
	notice       string
	noticeExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = 500 * time.Millisecond
	}
	if opts.Page == "" {
		opts.Page = "/"
	}

	ti := textinput.New()
	ti.Placeholder = "Search songs and artists..."
	ti.CharLimit = 100
	ti.Width = 50

	m := Model{
		opts:        opts,
		ctrl:        opts.Controller,
		events:      make(chan core.Event, 64),
		log:         opts.Logger,
		pageTitle:   pageTitle(opts.Page),
		bar:         components.NewPlayerBar(),
		listView:    components.NewListing(),
		history:     components.NewHistory(),
		upNext:      components.NewUpNext(),
		nowPlaying:  components.NewNowPlaying(),
		help:        help.New(),
		searchInput: ti,
	}
	m.state = m.ctrl.State()
	m.songs = m.ctrl.Playlist()
	m.bar.Sync(m.state)
	return m
}

// Messages
type tickMsg time.Time
type eventMsg core.Event
type errMsg struct{ err error }
type noticeMsg string
type sessionMsg session.Status
type prefsChangedMsg struct{}

type listingMsg struct {
	title string
	songs []core.Song
	err   error
}

// Search messages
type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	query   string
	results []core.Song
	err     error
}

// Subscribe forwards controller events into the model. The subscriber
// never blocks the controller; a full buffer drops the event and the
// next tick catches up.
func (m Model) Subscribe() (unsubscribe func()) {
	return m.ctrl.Subscribe(func(ev core.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-m.events)
	}
}

func (m Model) waitForPrefs() tea.Cmd {
	if m.opts.PrefsChanged == nil {
		return nil
	}
	ch := m.opts.PrefsChanged
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return prefsChangedMsg{}
	}
}

// action runs a controller call off the event loop and reports its error.
func action(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) fetchListing(path string) tea.Cmd {
	lib := m.opts.Library
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		body, err := lib.Page(ctx, path)
		if err != nil {
			return listingMsg{err: err}
		}
		songs, err := buildListing(lib, body, path)
		return listingMsg{title: pageTitle(path), songs: songs, err: err}
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	lib := m.opts.Library
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		body, err := lib.Search(ctx, query)
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}
		songs, err := buildListing(lib, body, "/search")
		return searchResultsMsg{query: query, results: songs, err: err}
	}
}

func buildListing(lib Library, body []byte, path string) ([]core.Song, error) {
	base, err := url.Parse(lib.URL(path))
	if err != nil {
		return nil, err
	}
	return listing.Build(bytes.NewReader(body), base)
}

func (m Model) touchSession() tea.Cmd {
	mon := m.opts.Monitor
	if mon == nil || m.expired {
		return nil
	}
	return action(mon.Touch)
}

func (m Model) checkSession() tea.Cmd {
	mon := m.opts.Monitor
	if mon == nil || m.expired {
		return nil
	}
	return func() tea.Msg {
		return sessionMsg(mon.Check())
	}
}

func (m Model) extendSession() tea.Cmd {
	mon := m.opts.Monitor
	if mon == nil || m.expired {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := mon.Extend(ctx); err != nil {
			return errMsg{err}
		}
		return sessionMsg(mon.Check())
	}
}

func (m Model) copyStreamURL() tea.Cmd {
	song := m.state.Song
	return func() tea.Msg {
		if song == nil || song.SourceURL == "" {
			return errMsg{jerrors.ErrNoSongLoaded}
		}
		if err := clipboard.WriteAll(song.SourceURL); err != nil {
			return errMsg{err}
		}
		return noticeMsg("Copied stream URL")
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.waitForEvent(),
		m.waitForPrefs(),
		m.fetchListing(m.opts.Page),
		m.checkSession(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The session warning takes any key as activity.
		if m.session.Phase == session.PhaseWarning && !m.expired && msg.String() != "ctrl+c" {
			m.session.Phase = session.PhaseActive
			return m, m.extendSession()
		}
		next, cmd := m.handleKeyPress(msg)
		return next, tea.Batch(cmd, m.touchSession())

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Layout(m.barTop(), m.width)
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.expireToasts()
		m.state = m.ctrl.State()
		m.bar.Sync(m.state)
		ctrl := m.ctrl
		return m, tea.Batch(m.tick(), m.checkSession(), func() tea.Msg {
			ctrl.Tick()
			return nil
		})

	case eventMsg:
		m.applyEvent(core.Event(msg))
		return m, m.waitForEvent()

	case listingMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("failed to load listing")
			m.setError(msg.err)
			return m, nil
		}
		m.pageTitle = msg.title
		m.ctrl.SetPlaylist(msg.songs)
		m.songs = m.ctrl.Playlist()
		m.listView.SelectID(m.songs, m.state.CurrentSongID)
		return m, nil

	case errMsg:
		m.setError(msg.err)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.noticeExpiry = time.Now().Add(toastDuration)
		return m, nil

	case sessionMsg:
		m.session = session.Status(msg)
		if m.session.Phase == session.PhaseExpired && !m.expired {
			m.expired = true
			m.notice = "Signed out after inactivity"
			m.noticeExpiry = time.Now().Add(toastDuration)
		}
		return m, nil

	case prefsChangedMsg:
		if m.opts.Prefs != nil {
			if theme, ok := m.opts.Prefs.Get(core.KeyTheme); ok && theme != styles.Current() {
				styles.Apply(theme)
			}
		}
		return m, m.waitForPrefs()

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		if msg.query != m.lastQuery {
			return m, nil
		}
		m.searching = false
		m.searchResults = msg.results
		m.searchErr = msg.err
		m.searchCursor = 0
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m *Model) applyEvent(ev core.Event) {
	prev := m.state.CurrentSongID
	m.state = ev.State
	m.bar.Sync(m.state)

	switch ev.Type {
	case core.EventError:
		m.setError(ev.Err)
	case core.EventPlaylistChange, core.EventLikeChange:
		m.songs = m.ctrl.Playlist()
		m.listView.Clamp(len(m.songs))
	case core.EventSongChange:
		if m.state.Song != nil && m.state.CurrentSongID != prev {
			m.history.Add(*m.state.Song)
			m.listView.SelectID(m.songs, m.state.CurrentSongID)
		}
	}
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.lastError = err
	m.errorExpiry = time.Now().Add(toastDuration)
}

func (m *Model) expireToasts() {
	now := time.Now()
	if m.lastError != nil && now.After(m.errorExpiry) {
		m.lastError = nil
	}
	if m.notice != "" && now.After(m.noticeExpiry) {
		m.notice = ""
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.confirmDelete != nil {
		return m.handleConfirmKeyPress(msg)
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	if m.showNowPlaying {
		switch msg.String() {
		case "o", "esc", "q":
			m.showNowPlaying = false
			return m, nil
		}
	}

	ctrl := m.ctrl
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Search):
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.lastQuery = ""
		m.searchErr = nil
		return m, textinput.Blink

	case key.Matches(msg, keys.Tab):
		m.focusedPanel = (m.focusedPanel + 1) % 2
		return m, nil

	case key.Matches(msg, keys.NowPlay):
		m.showNowPlaying = !m.showNowPlaying
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.fetchListing(m.opts.Page)

	case key.Matches(msg, keys.Theme):
		return m, m.toggleTheme()

	case key.Matches(msg, keys.Extend):
		return m, m.extendSession()

	// Playback controls
	case key.Matches(msg, keys.PlayPause):
		return m, action(func(context.Context) error { return ctrl.TogglePlayPause() })
	case key.Matches(msg, keys.Next):
		return m, action(ctrl.Next)
	case key.Matches(msg, keys.Prev):
		return m, action(ctrl.Previous)
	case key.Matches(msg, keys.SeekBack):
		return m, action(func(context.Context) error { return ctrl.SeekBy(-seekStep) })
	case key.Matches(msg, keys.SeekFwd):
		return m, action(func(context.Context) error { return ctrl.SeekBy(seekStep) })
	case key.Matches(msg, keys.VolUp):
		return m, action(func(context.Context) error { ctrl.AdjustVolume(volumeStep); return nil })
	case key.Matches(msg, keys.VolDown):
		return m, action(func(context.Context) error { ctrl.AdjustVolume(-volumeStep); return nil })
	case key.Matches(msg, keys.Mute):
		return m, action(func(context.Context) error { ctrl.ToggleMute(); return nil })
	case key.Matches(msg, keys.Shuffle):
		return m, action(func(context.Context) error { ctrl.ToggleShuffle(); return nil })
	case key.Matches(msg, keys.Repeat):
		return m, action(func(context.Context) error { ctrl.ToggleRepeat(); return nil })
	case key.Matches(msg, keys.Retry):
		return m, action(ctrl.Retry)
	case key.Matches(msg, keys.Copy):
		return m, m.copyStreamURL()

	case key.Matches(msg, keys.Like):
		id := m.targetID()
		return m, action(func(ctx context.Context) error {
			_, err := ctrl.ToggleLike(ctx, id)
			return err
		})

	case key.Matches(msg, keys.Delete):
		if song, ok := m.selectedSong(); ok && m.focusedPanel == PanelListing {
			m.confirmDelete = &song
		}
		return m, nil
	}

	// Listing keys
	if m.focusedPanel == PanelListing {
		switch {
		case key.Matches(msg, keys.Down):
			m.listView.SelectNext(len(m.songs))
		case key.Matches(msg, keys.Up):
			m.listView.SelectPrev()
		case key.Matches(msg, keys.Select):
			if song, ok := m.selectedSong(); ok {
				return m, action(func(ctx context.Context) error { return ctrl.LoadAndPlay(ctx, song.ID) })
			}
		}
	}

	return m, nil
}

// targetID is the song a like applies to: the selected listing row when
// the listing is focused, else the current song.
func (m Model) targetID() string {
	if m.focusedPanel == PanelListing && !m.showNowPlaying {
		if song, ok := m.selectedSong(); ok {
			return song.ID
		}
	}
	return ""
}

func (m Model) selectedSong() (core.Song, bool) {
	i := m.listView.Selected()
	if i < 0 || i >= len(m.songs) {
		return core.Song{}, false
	}
	return m.songs[i], true
}

func (m Model) handleConfirmKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	song := *m.confirmDelete
	switch msg.String() {
	case "y", "Y":
		m.confirmDelete = nil
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			if err := ctrl.DeleteSong(ctx, song.ID, true); err != nil {
				return errMsg{err}
			}
			return noticeMsg("Deleted " + song.DisplayTitle())
		}
	case "n", "N", "esc", "q":
		m.confirmDelete = nil
	}
	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			results := m.searchResults
			picked := results[m.searchCursor]
			m.showSearch = false
			m.searchInput.Blur()
			m.pageTitle = "Search: " + m.lastQuery
			m.ctrl.SetPlaylist(results)
			m.songs = m.ctrl.Playlist()
			m.listView.SelectID(m.songs, picked.ID)
			ctrl := m.ctrl
			return m, action(func(ctx context.Context) error { return ctrl.LoadAndPlay(ctx, picked.ID) })
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.searchInput.Value() != m.lastQuery {
		query := m.searchInput.Value()
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// handleMouse routes mouse events to the sliders. Once a slider is
// pressed it receives every event until the button is released, wherever
// the pointer is.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var touch tea.Cmd
	if msg.Action == tea.MouseActionPress {
		touch = m.touchSession()
	}

	ctrl := m.ctrl
	progress, volume := &m.bar.Progress, &m.bar.Volume

	switch {
	case progress.Dragging() || (!volume.Dragging() && progress.Contains(msg.X, msg.Y)):
		if v, ok := progress.HandleMouse(msg); ok {
			return m, tea.Batch(touch, action(func(context.Context) error { return ctrl.Seek(v) }))
		}
	case volume.Dragging() || volume.Contains(msg.X, msg.Y):
		if v, ok := volume.HandleMouse(msg); ok {
			return m, tea.Batch(touch, action(func(context.Context) error { ctrl.SetVolume(v); return nil }))
		}
	}
	return m, touch
}

func (m Model) toggleTheme() tea.Cmd {
	next := styles.Toggle(styles.Current(), lipgloss.HasDarkBackground())
	styles.Apply(next)
	prefs := m.opts.Prefs
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		if err := prefs.Set(core.KeyTheme, next); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// barTop is the row of the player bar's top border.
func (m Model) barTop() int {
	return max(m.height-1-components.PlayerBarHeight, 0)
}

func pageTitle(path string) string {
	if path == "" || path == "/" {
		return "Songs"
	}
	return path
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Theme == "" || opts.Theme == styles.ThemeAuto {
		if opts.Prefs != nil {
			if theme, ok := opts.Prefs.Get(core.KeyTheme); ok {
				opts.Theme = theme
			}
		}
	}
	styles.Apply(opts.Theme)

	model := NewModel(opts)
	unsubscribe := model.Subscribe()
	defer unsubscribe()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
