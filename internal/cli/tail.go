package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailNoLookup  bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch the player's saved state and print changes as they happen.
Works alongside 'jukebar play' or 'jukebar ui' running in another terminal.

Events tracked:
  - Song changes
  - Song completions and skips (when the duration is known)
  - Pause/Resume/Stop
  - Volume changes

Template fields: .Type .Emoji .Time .Timestamp .SongID .Title .Artist
.Status .Volume`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().BoolVar(&tailNoLookup, "no-lookup", false, "do not fetch song titles from the server")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)
	if err := formatter.Err(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	var lookup tail.LookupFunc
	if !tailNoLookup {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		lookup = client.GetSong
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := tail.NewWatcher(st, lookup)

	// Show what is loaded right now before following changes.
	if curr := watcher.Current(ctx); curr.HasSong() {
		fmt.Println(formatter.Format(tail.Event{Type: tail.EventSongChange, Current: curr}))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return waitTail(errCh)
			}
			fmt.Println(formatter.Format(event))
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func waitTail(errCh <-chan error) error {
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
