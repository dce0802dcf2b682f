package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/api"
	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/player"
	"github.com/tessro/jukebar/internal/remote"
	"github.com/tessro/jukebar/internal/store"
	"github.com/tessro/jukebar/internal/wizard"
)

var (
	playPage    string
	playShuffle bool
	playRepeat  string
)

var playCmd = &cobra.Command{
	Use:   "play [song-id]",
	Short: "Play a song",
	Long: `Play a song in the foreground until it (and the playlist) ends.

With --page, the playlist is built from that listing page, so next/prev
and song end move through it. Without a song id, a picker over the
listing (or a search prompt) is shown.

While it runs, 'jukebar pause', 'resume', 'next', 'prev', 'volume' and
'stop' from another terminal control it.

Examples:
  jukebar play 42                 # Play song 42
  jukebar play 42 --page /songs   # Play 42, then continue through /songs
  jukebar play --page /mood/happy # Pick from a mood listing
  jukebar play --page /library --shuffle --repeat all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running player",
	Long:  `Ask a player started with 'jukebar play' or 'jukebar ui' to exit.`,
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	playCmd.Flags().StringVarP(&playPage, "page", "p", "", "listing page to build the playlist from (e.g. /songs)")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "enable shuffle mode")
	playCmd.Flags().StringVar(&playRepeat, "repeat", "", "repeat mode (none, all, one)")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stopCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	var songs []core.Song
	if playPage != "" {
		if songs, err = fetchListing(ctx, client, playPage); err != nil {
			return err
		}
	}

	var id string
	if wizard.NeedsSong(args) {
		picked, err := pickSong(ctx, client, songs, playPage)
		if err != nil {
			return err
		}
		id = picked.ID
	} else {
		id = args[0]
	}

	ctrl := newController(client, st, newMedia())
	applyStoredVolume(ctrl, st)
	if err := applyModeFlags(cmd, ctrl); err != nil {
		return err
	}
	if len(songs) > 0 {
		ctrl.SetPlaylist(songs)
	}
	if err := ctrl.LoadAndPlay(ctx, id); err != nil {
		return err
	}
	return runForeground(ctx, st, ctrl)
}

// pickSong offers the listing, or a search prompt without one.
func pickSong(ctx context.Context, client *api.Client, songs []core.Song, page string) (*core.Song, error) {
	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())

	var (
		picked *core.Song
		err    error
	)
	if len(songs) > 0 {
		interactive.SetSongs(songs)
		picked, err = interactive.PromptSong(page)
	} else {
		interactive.SetSearchFunc(func(q string) ([]core.Song, error) {
			return searchListing(ctx, client, q)
		})
		picked, err = interactive.PromptSearch("")
	}
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, jerrors.WithSuggestion(jerrors.ErrNoSongLoaded,
			"Pass a song id, e.g. 'jukebar play 42', or run in a terminal to pick one")
	}
	return picked, nil
}

func runStop(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if !remote.Running(st) {
		return jerrors.WithSuggestion(fmt.Errorf("no player is running"), "Start one with 'jukebar play' or 'jukebar ui'")
	}
	if err := remote.Send(st, remote.VerbStop); err != nil {
		return err
	}
	return report("stopped", "⏹ Stopped")
}

func ensureNotRunning(st *store.Store) error {
	if !remote.Running(st) {
		return nil
	}
	pid, _ := remote.PID(st)
	return jerrors.WithSuggestion(
		fmt.Errorf("a player is already running (pid %d)", pid),
		"Control it with 'jukebar pause|resume|next|prev', or run 'jukebar stop' first")
}

// applyStoredVolume restores the last level without reloading the last song.
func applyStoredVolume(ctrl *player.Controller, st core.Store) {
	v, ok := st.Get(core.KeyVolume)
	if !ok {
		return
	}
	if level, err := strconv.ParseFloat(v, 64); err == nil {
		ctrl.SetVolume(level)
	}
}

func applyModeFlags(cmd *cobra.Command, ctrl *player.Controller) error {
	if cmd.Flags().Changed("shuffle") && ctrl.State().Shuffle != playShuffle {
		ctrl.ToggleShuffle()
	}
	if playRepeat == "" {
		return nil
	}
	mode, err := core.ParseRepeatMode(playRepeat)
	if err != nil {
		return jerrors.Validation("%v", err)
	}
	for ctrl.State().Repeat != mode {
		ctrl.ToggleRepeat()
	}
	return nil
}

// runForeground keeps a controller playing until its playlist ends, a
// remote stop arrives or ctx is cancelled. It answers remote commands
// for the whole run.
func runForeground(ctx context.Context, st *store.Store, ctrl *player.Controller) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := remote.NewServer(st, ctrl, logger, cancel)
	if err := srv.Claim(); err != nil {
		return err
	}
	defer func() { _ = srv.Release() }()

	events := make(chan core.Event, 16)
	unsubscribe := ctrl.Subscribe(func(e core.Event) {
		select {
		case events <- e:
		default:
		}
	})
	defer unsubscribe()

	go func() {
		err := st.Watch(ctx, func() {
			if err := srv.Handle(ctx); err != nil {
				fmt.Fprintln(os.Stderr, jerrors.Notice(err))
			}
		})
		if err != nil {
			logger.Warn().Err(err).Msg("state watch stopped")
		}
	}()

	state := ctrl.State()
	srv.Publish(state)
	announce(state)
	lastSong := state.CurrentSongID

	ticker := time.NewTicker(time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ctrl.Tick()
		case e := <-events:
			srv.Publish(e.State)
			if e.Type == core.EventError {
				fmt.Fprintln(os.Stderr, jerrors.Format(e.Err))
			}
			if e.Type == core.EventSongChange && e.State.CurrentSongID != lastSong {
				lastSong = e.State.CurrentSongID
				announce(e.State)
			}
			if ended(e.State) {
				return nil
			}
		}
	}
}

// ended reports whether the current song played out with nothing after it.
func ended(s core.PlaybackState) bool {
	return s.HasSong() && !s.IsPlaying && !s.Loading &&
		s.Duration > 0 && s.Position >= s.Duration
}

func announce(s core.PlaybackState) {
	if !s.HasSong() {
		return
	}
	if JSONOutput() {
		_ = printJSON(map[string]any{
			"status":   "playing",
			"song_id":  s.CurrentSongID,
			"song":     s.Song,
			"duration": s.Duration.Seconds(),
		})
		return
	}
	line := "song " + s.CurrentSongID
	if s.Song != nil {
		line = songLine(s.Song)
	}
	fmt.Printf("▶ Now playing: %s [%s]\n", line, FormatDuration(s.Duration))
}

// report prints a one-word JSON status or a human line.
func report(status, human string) error {
	if JSONOutput() {
		return printJSON(map[string]string{"status": status})
	}
	fmt.Println(human)
	return nil
}
