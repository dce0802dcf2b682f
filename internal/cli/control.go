package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/core"
	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/player"
	"github.com/tessro/jukebar/internal/remote"
	"github.com/tessro/jukebar/internal/store"
)

var controlPage string

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the running player.`,
	Args:  cobra.NoArgs,
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume playback",
	Long: `Resume the running player. With no player running, the last song
is restored at its saved position and played in the foreground.`,
	Args: cobra.NoArgs,
	RunE: runResume,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next song",
	Long: `Skip to the next song in the running player's playlist. With no
player running, --page builds the playlist and playback continues in the
foreground.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous song",
	Long: `Go back to the previous song, or restart the current one when it
is more than three seconds in.`,
	Args: cobra.NoArgs,
	RunE: runPrev,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down. The level is
saved for the next run and applied to a running player.

Examples:
  jukebar volume 50      # Set volume to 50%
  jukebar volume --up    # Increase volume by 10%
  jukebar volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func init() {
	resumeCmd.Flags().StringVarP(&controlPage, "page", "p", "", "listing page for the playlist when starting a player")
	nextCmd.Flags().StringVarP(&controlPage, "page", "p", "", "listing page for the playlist when starting a player")
	prevCmd.Flags().StringVarP(&controlPage, "page", "p", "", "listing page for the playlist when starting a player")
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(volumeCmd)
}

func runPause(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if !remote.Running(st) {
		return jerrors.WithSuggestion(fmt.Errorf("no player is running"),
			"Start one with 'jukebar play <id>' or 'jukebar resume'")
	}
	if err := remote.Send(st, remote.VerbPause); err != nil {
		return err
	}
	return report("paused", "⏸ Paused")
}

func runResume(cmd *cobra.Command, args []string) error {
	return sendOrStart(cmd, remote.VerbResume, "playing", "▶ Resumed", func(ctx context.Context, ctrl *player.Controller) error {
		return ctrl.Play()
	})
}

func runNext(cmd *cobra.Command, args []string) error {
	return sendOrStart(cmd, remote.VerbNext, "skipped", "⏭ Skipped to next song", func(ctx context.Context, ctrl *player.Controller) error {
		return ctrl.Next(ctx)
	})
}

func runPrev(cmd *cobra.Command, args []string) error {
	return sendOrStart(cmd, remote.VerbPrev, "previous", "⏮ Previous song", func(ctx context.Context, ctrl *player.Controller) error {
		return ctrl.Previous(ctx)
	})
}

// sendOrStart forwards verb to a running player. Without one it restores
// the saved song, applies step and keeps playing in the foreground.
func sendOrStart(cmd *cobra.Command, verb remote.Verb, status, human string, step func(context.Context, *player.Controller) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if remote.Running(st) {
		if err := remote.Send(st, verb); err != nil {
			return err
		}
		return report(status, human)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, _, err := newClient()
	if err != nil {
		return err
	}
	ctrl := newController(client, st, newMedia())
	if controlPage != "" {
		songs, err := fetchListing(ctx, client, controlPage)
		if err != nil {
			return err
		}
		ctrl.SetPlaylist(songs)
	}
	if err := ctrl.Restore(ctx); err != nil {
		return err
	}
	if err := step(ctx, ctrl); err != nil {
		return err
	}
	return runForeground(ctx, st, ctrl)
}

func runVolume(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	current := currentVolume(st)

	if !volumeUp && !volumeDown && len(args) == 0 {
		if JSONOutput() {
			return printJSON(map[string]any{"volume": current})
		}
		fmt.Printf("🔊 Volume: %d%%\n", current)
		return nil
	}

	target, err := targetVolume(current, args, volumeUp, volumeDown)
	if err != nil {
		return err
	}
	level := strconv.FormatFloat(float64(target)/100, 'f', -1, 64)
	if err := st.Set(core.KeyVolume, level); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"volume": target, "applied": remote.Running(st)})
	}
	fmt.Printf("🔊 Volume: %d%%\n", target)
	return nil
}

// currentVolume is the saved level as a percentage, or the default.
func currentVolume(st *store.Store) int {
	level := cfg.Defaults.Volume
	if v, ok := st.Get(core.KeyVolume); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			level = f
		}
	}
	return int(level*100 + 0.5)
}

func targetVolume(current int, args []string, up, down bool) (int, error) {
	switch {
	case len(args) > 0:
		val, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, jerrors.Validation("invalid volume level: %s", args[0])
		}
		if val < 0 || val > 100 {
			return 0, jerrors.Validation("volume must be between 0 and 100")
		}
		return val, nil
	case up:
		return min(current+10, 100), nil
	case down:
		return max(current-10, 0), nil
	}
	return current, nil
}
