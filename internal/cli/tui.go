package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/core"
	"github.com/tessro/jukebar/internal/remote"
	"github.com/tessro/jukebar/internal/tui"
)

var (
	tuiRefresh int
	tuiPage    string
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive player",
	Long: `Launch the interactive terminal player.

The player shows:
  • Listing - songs on the current page
  • Player bar - current song, progress and volume
  • History - recently played songs

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  Enter        Play selected song
  n / p        Next / previous song
  ←/→          Seek
  ↑/↓          Volume up/down
  j/k          Move in the listing
  s / r        Shuffle / repeat
  l            Like
  t            Toggle theme
  Tab          Switch panel

The last song, position and volume are restored on start. 'jukebar pause',
'next' and friends from another terminal control this player.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default from config)")
	tuiCmd.Flags().StringVarP(&tuiPage, "page", "p", "/songs", "listing page to open")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	st, err := openStore()
	if err != nil {
		return err
	}
	if err := ensureNotRunning(st); err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	ctrl := newController(client, st, newMedia())
	if err := ctrl.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not restore last song")
	}

	srv := remote.NewServer(st, ctrl, logger, cancel)
	if err := srv.Claim(); err != nil {
		return err
	}
	defer func() { _ = srv.Release() }()

	unsubscribe := ctrl.Subscribe(func(e core.Event) {
		srv.Publish(e.State)
	})
	defer unsubscribe()
	srv.Publish(ctrl.State())

	prefsChanged := make(chan struct{}, 1)
	go func() {
		err := st.Watch(ctx, func() {
			if err := srv.Handle(ctx); err != nil {
				logger.Warn().Err(err).Msg("remote command failed")
			}
			select {
			case prefsChanged <- struct{}{}:
			default:
			}
		})
		if err != nil {
			logger.Warn().Err(err).Msg("state watch stopped")
		}
	}()

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	if tuiRefresh > 0 {
		refresh = time.Duration(tuiRefresh) * time.Millisecond
	}

	return tui.Run(ctx, tui.Options{
		Controller:   ctrl,
		Library:      client,
		Prefs:        st,
		Monitor:      newMonitor(client),
		Refresh:      refresh,
		Page:         tuiPage,
		Theme:        cfg.TUI.Theme,
		Logger:       logger,
		PrefsChanged: prefsChanged,
	})
}
